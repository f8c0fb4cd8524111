package sculptor

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// GrayscaleQuestion is the default question sent to the vision model.
const GrayscaleQuestion = "Is the image in color or black and white?"

// ImageInput represents an image handed to a vision model.
type ImageInput struct {
	URL      string // data: URI
	MIMEType string // e.g. "image/jpeg"
}

// Classifier abstracts a vision-language model answering free-text questions about an image.
type Classifier interface {
	Ask(ctx context.Context, img ImageInput, question string) (string, error)
}

// ParseGrayscaleAnswer maps a free-text model answer onto a Verdict.
// "black and white", "grayscale" and "monochrome" win over color words.
func ParseGrayscaleAnswer(answer string) Verdict {
	a := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case a == "":
		return VerdictUnsupported
	case strings.Contains(a, "black and white"),
		strings.Contains(a, "grayscale"),
		strings.Contains(a, "greyscale"),
		strings.Contains(a, "monochrome"):
		return VerdictGrayscale
	case strings.Contains(a, "color"), strings.Contains(a, "colour"):
		return VerdictColor
	default:
		return VerdictUnsupported
	}
}

// IsAffirmative reports whether a yes/no answer says yes.
func IsAffirmative(answer string) bool {
	a := strings.ToLower(answer)
	return strings.Contains(a, "yes") || strings.Contains(a, "true")
}

// askGrayscale classifies the image at path with cfg.Classifier.
// Any failure yields VerdictUnsupported so the asset is skipped.
func (cfg *Config) askGrayscale(ctx context.Context, a Asset, question string) Verdict {
	if cfg.Classifier == nil {
		return VerdictUnsupported
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		slog.Debug("sculptor: vision read failed", "path", a.Path, "error", err.Error())
		return VerdictUnsupported
	}
	mime := mimeForExt(a.Ext)
	resp, err := cfg.Classifier.Ask(ctx, ImageInput{URL: EncodeDataURL(data, mime), MIMEType: mime}, question)
	if err != nil {
		slog.Debug("sculptor: vision model error", "path", a.Path, "error", err.Error())
		return VerdictUnsupported
	}
	slog.Debug("sculptor: vision result", "path", a.Path, "response", resp)
	return ParseGrayscaleAnswer(resp)
}

// EncodeDataURL creates a data: URI from bytes and MIME type.
func EncodeDataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
