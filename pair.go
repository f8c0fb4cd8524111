package sculptor

import (
	"os"
	"path/filepath"
	"strings"
)

// CaptionExt is the sidecar caption extension.
const CaptionExt = ".txt"

// CaptionPathFor returns where the caption of assetPath would live.
func CaptionPathFor(assetPath string) string {
	return strings.TrimSuffix(assetPath, filepath.Ext(assetPath)) + CaptionExt
}

// FindCaption returns the sidecar caption of assetPath if one exists.
func FindCaption(assetPath string) (string, bool) {
	p := CaptionPathFor(assetPath)
	if p == assetPath {
		return "", false
	}
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return p, true
}

// IsOrphanCaption reports whether no file in the caption's directory shares its
// basename under a different extension. Any extension counts as a sibling,
// not only image extensions.
func IsOrphanCaption(captionPath string) (bool, error) {
	dir, name := filepath.Split(captionPath)
	if dir == "" {
		dir = "."
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.IsDir() || e.Name() == name {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == "" || strings.EqualFold(ext, CaptionExt) {
			continue
		}
		if strings.TrimSuffix(e.Name(), ext) == base {
			return false, nil
		}
	}
	return true, nil
}
