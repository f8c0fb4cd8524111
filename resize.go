package sculptor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ResizeOpts configures Resize. MaxEdgeLength 0 = 2048; empty Extensions =
// EncodableExtensions without .gif.
type ResizeOpts struct {
	Scope
	MaxEdgeLength int
	// PreserveOriginals writes resized copies (and caption copies) to
	// <OutputDir>/DS_Reduced/<relative dir> instead of overwriting in place.
	PreserveOriginals bool
}

var defaultResizeExtensions = []string{".bmp", ".jpeg", ".jpg", ".png", ".tif", ".tiff"}

// Resize downscales every image whose longer edge exceeds MaxEdgeLength,
// preserving aspect ratio.
func (cfg *Config) Resize(ctx context.Context, opts ResizeOpts) (*BatchReport, error) {
	cfg.defaults()
	if opts.MaxEdgeLength <= 0 {
		opts.MaxEdgeLength = DefaultMaxEdgeLength
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = defaultResizeExtensions
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	outRoot := scope.dest(DirReduced)
	op := PairedFileOperator{}
	return cfg.runBatch(ctx, "resize", scope.catalog(outRoot), func(_ context.Context, a Asset) PairOutcome {
		format, ok := formatForExt(a.Ext)
		if !ok {
			return single(skipped(a.Path, KindUnsupportedFormat, "no encoder for "+a.Ext, nil))
		}
		w, h, err := a.Dimensions()
		if err != nil {
			return single(skipped(a.Path, KindUnreadableFile, "decode", err))
		}
		nw, nh, ok := ComputeResizeTarget(w, h, opts.MaxEdgeLength)
		if !ok {
			return single(skipped(a.Path, KindNone, "within bounds", nil))
		}
		img, err := decodeFile(a.Path)
		if err != nil {
			return single(skipped(a.Path, KindUnreadableFile, "decode", err))
		}
		scaled := scaleImage(img, nw, nh)
		reason := fmt.Sprintf("%dx%d -> %dx%d", w, h, nw, nh)

		if !opts.PreserveOriginals {
			if err := writeImageAtomic(a.Path, scaled, format, cfg.JPEGQuality); err != nil {
				return single(failed(a.Path, KindFilesystem, "write resized", err))
			}
			return single(applied(a.Path, a.Path, reason))
		}

		destDir := filepath.Join(outRoot, a.RelDir())
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return single(failed(a.Path, KindFilesystem, "create destination", err))
		}
		dest := filepath.Join(destDir, a.Name())
		if err := writeImageExclusive(dest, scaled, format, cfg.JPEGQuality); err != nil {
			return single(failed(a.Path, KindFilesystem, "write resized", err))
		}
		return PairOutcome{
			Asset:   applied(a.Path, dest, reason),
			Caption: op.CopyCaption(a.Path, destDir, a.Base()),
		}
	}), nil
}
