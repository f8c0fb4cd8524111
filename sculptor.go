package sculptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Default destination folder names, created under Scope.OutputDir.
const (
	DirReduced     = "DS_Reduced"
	DirConverted   = "DS_Converted"
	DirMonochrome  = "DS_Monochrome"
	DirString      = "DS_String"
	DirDuplicates  = "DS_Duplicates"
	DirMetaCaption = "DS_MetaCaption"
)

const defaultJPEGQuality = 95

// DefaultExtensions is the image allowlist used when Scope.Extensions is empty.
var DefaultExtensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}

var (
	// ErrInvalidPath is returned when the input directory is missing or is not a directory.
	ErrInvalidPath = errors.New("sculptor: input path is not a directory")
	// ErrNoMetadataBridge is returned by metadata operations when Config has no bridge.
	ErrNoMetadataBridge = errors.New("sculptor: no metadata bridge configured")
	// ErrUnsupportedTarget is returned when a conversion target has no encoder.
	ErrUnsupportedTarget = errors.New("sculptor: unsupported target file type")
)

// CaptionReader reads a caption embedded in image metadata.
type CaptionReader interface {
	ReadCaption(ctx context.Context, imagePath string) (string, error)
}

// CaptionWriter embeds a caption into image metadata.
type CaptionWriter interface {
	WriteCaption(ctx context.Context, imagePath, caption string) error
}

// MetadataBridge abstracts an external metadata editor (exiftool and friends).
type MetadataBridge interface {
	CaptionReader
	CaptionWriter
}

// Config holds the collaborators and knobs shared by every operation.
// A Config may be reused across runs; operation settings live in the *Opts values.
type Config struct {
	Workers     int // parallel per-asset workers (default: runtime.NumCPU())
	JPEGQuality int // default: 95

	// Metadata is required by CaptionsToMetadata and, unless MetadataReader is
	// set, by MetadataToCaptions.
	Metadata       MetadataBridge
	MetadataReader CaptionReader

	// Classifier is an optional vision model used by SortGrayscale when
	// GrayscaleOpts.UseVision is set.
	Classifier Classifier

	// Optional callbacks for logging. OnOutcome calls are serialized.
	OnOutcome func(PairOutcome)
	OnPanic   func(tag string, r any)
}

func (c *Config) defaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = defaultJPEGQuality
	}
}

// Transfer selects what happens to a selected pair.
type Transfer int

const (
	TransferNone Transfer = iota
	TransferCopy
	TransferMove
)

func (t Transfer) String() string {
	switch t {
	case TransferCopy:
		return "copy"
	case TransferMove:
		return "move"
	default:
		return "none"
	}
}

// ParseTransfer maps "copy", "move" and "none" (any case) to a Transfer.
func ParseTransfer(s string) (Transfer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy":
		return TransferCopy, nil
	case "move":
		return TransferMove, nil
	case "", "none":
		return TransferNone, nil
	}
	return TransferNone, fmt.Errorf("sculptor: unknown transfer mode %q", s)
}

// LabelPosition places a label before or after existing text.
type LabelPosition int

const (
	LabelEnd LabelPosition = iota
	LabelStart
)

// ParseLabelPosition maps "start" and "end" to a LabelPosition.
func ParseLabelPosition(s string) (LabelPosition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "before":
		return LabelStart, nil
	case "", "end", "after":
		return LabelEnd, nil
	}
	return LabelEnd, fmt.Errorf("sculptor: unknown label position %q", s)
}

// Scope is the directory tree an operation traverses.
// Zero values mean "use defaults": OutputDir = InputDir, Extensions = DefaultExtensions.
type Scope struct {
	InputDir   string
	OutputDir  string
	Recursive  bool
	Extensions []string
}

// resolve validates the input directory and returns an absolute copy of s.
func (s Scope) resolve() (Scope, error) {
	if strings.TrimSpace(s.InputDir) == "" {
		return s, fmt.Errorf("%w: empty input directory", ErrInvalidPath)
	}
	in, err := filepath.Abs(s.InputDir)
	if err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrInvalidPath, s.InputDir, err)
	}
	info, err := os.Stat(in)
	if err != nil || !info.IsDir() {
		return s, fmt.Errorf("%w: %s", ErrInvalidPath, s.InputDir)
	}
	s.InputDir = in

	if s.OutputDir == "" {
		s.OutputDir = in
	} else if s.OutputDir, err = filepath.Abs(s.OutputDir); err != nil {
		return s, fmt.Errorf("sculptor: output directory: %w", err)
	}
	if len(s.Extensions) == 0 {
		s.Extensions = DefaultExtensions
	}
	return s, nil
}

// catalog builds the asset catalog for s, excluding the given destination trees.
func (s Scope) catalog(exclude ...string) Catalog {
	return Catalog{
		Root:       s.InputDir,
		Recursive:  s.Recursive,
		Extensions: s.Extensions,
		Exclude:    exclude,
	}
}

// dest returns the named destination folder under OutputDir.
func (s Scope) dest(name string) string {
	return filepath.Join(s.OutputDir, name)
}
