package sculptor

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Asset is a single image file under management. Dimensions are decoded on
// demand and never cached, since earlier steps may have rewritten the file.
type Asset struct {
	Path string // absolute path
	Rel  string // path relative to the scan root
	Ext  string // lower-case extension including the dot
}

func newAsset(root, path string) Asset {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return Asset{Path: path, Rel: rel, Ext: strings.ToLower(filepath.Ext(path))}
}

// Dir returns the directory holding the asset.
func (a Asset) Dir() string { return filepath.Dir(a.Path) }

// Name returns the file name with extension.
func (a Asset) Name() string { return filepath.Base(a.Path) }

// Base returns the file name without its extension.
func (a Asset) Base() string {
	name := a.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// RelDir returns the directory of the asset relative to the scan root ("." for the root).
func (a Asset) RelDir() string { return filepath.Dir(a.Rel) }

// Dimensions reads the pixel size from the image header.
func (a Asset) Dimensions() (width, height int, err error) {
	f, err := os.Open(a.Path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// Catalog enumerates candidate assets below Root.
type Catalog struct {
	Root       string
	Recursive  bool
	Extensions []string // case-insensitive, with or without the leading dot
	Exclude    []string // directory trees to skip (absolute paths)
}

// Scan walks the tree lazily. Every call re-reads the filesystem. Unreadable
// directories are yielded as errors and skipped; the walk continues.
// Order is filesystem enumeration order.
func (c Catalog) Scan(ctx context.Context) iter.Seq2[Asset, error] {
	allow := extensionSet(c.Extensions)
	root := filepath.Clean(c.Root)

	return func(yield func(Asset, error) bool) {
		if !c.Recursive {
			entries, err := os.ReadDir(root)
			if err != nil {
				yield(Asset{Path: root}, fmt.Errorf("sculptor: read dir %s: %w", root, err))
				return
			}
			for _, e := range entries {
				if ctx.Err() != nil {
					return
				}
				if !e.Type().IsRegular() {
					continue
				}
				path := filepath.Join(root, e.Name())
				if !allow[strings.ToLower(filepath.Ext(path))] {
					continue
				}
				if !yield(newAsset(root, path), nil) {
					return
				}
			}
			return
		}

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if err != nil {
				if !yield(Asset{Path: path}, fmt.Errorf("sculptor: walk %s: %w", path, err)) {
					return fs.SkipAll
				}
				return nil
			}
			if d.IsDir() {
				if path != root && c.excluded(path) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !allow[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			if !yield(newAsset(root, path), nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

func (c Catalog) excluded(dir string) bool {
	for _, ex := range c.Exclude {
		if ex != "" && filepath.Clean(ex) == dir {
			return true
		}
	}
	return false
}

func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}
