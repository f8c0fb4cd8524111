package sculptor

import (
	"os"
	"strings"
)

const defaultLabelSeparator = ", "

// CaptionLabel adds Text to a caption, before or after the existing content.
type CaptionLabel struct {
	Text      string
	Position  LabelPosition
	Separator string // default ", "
}

// Apply returns caption with the label added. Trailing newlines of the
// existing caption are dropped; an empty caption becomes the label alone.
func (l CaptionLabel) Apply(caption string) string {
	caption = strings.TrimRight(caption, "\r\n")
	if l.Text == "" {
		return caption
	}
	if caption == "" {
		return l.Text
	}
	sep := l.Separator
	if sep == "" {
		sep = defaultLabelSeparator
	}
	if l.Position == LabelStart {
		return l.Text + sep + caption
	}
	return caption + sep + l.Text
}

func (l CaptionLabel) applyTo(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(l.Apply(string(data))), info.Mode().Perm())
}

// LabelName adds label to a file basename at the given position.
func LabelName(base, label string, pos LabelPosition) string {
	if pos == LabelStart {
		return label + base
	}
	return base + label
}
