package sculptor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ConvertOpts configures Convert. TargetExtension "" = ".png".
type ConvertOpts struct {
	Scope
	TargetExtension string
	// PreserveOriginals writes converted copies (and caption copies) to
	// <OutputDir>/DS_Converted/<relative dir>; otherwise the original is
	// replaced by the converted file next to it.
	PreserveOriginals bool
}

// Convert re-encodes every image into TargetExtension. Images already in the
// target format are skipped. In place, the caption needs no change because
// the basename is kept.
func (cfg *Config) Convert(ctx context.Context, opts ConvertOpts) (*BatchReport, error) {
	cfg.defaults()
	target := normalizeExt(opts.TargetExtension)
	if target == "" {
		target = ".png"
	}
	format, ok := formatForExt(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, opts.TargetExtension)
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	outRoot := scope.dest(DirConverted)
	op := PairedFileOperator{}
	return cfg.runBatch(ctx, "convert", scope.catalog(outRoot), func(_ context.Context, a Asset) PairOutcome {
		if sameFormat(a.Ext, target) {
			return single(skipped(a.Path, KindNone, "already "+target, nil))
		}
		img, err := decodeFile(a.Path)
		if err != nil {
			return single(skipped(a.Path, KindUnreadableFile, "decode", err))
		}
		name := a.Base() + target

		if !opts.PreserveOriginals {
			dest := filepath.Join(a.Dir(), name)
			if err := writeImageExclusive(dest, img, format, cfg.JPEGQuality); err != nil {
				return single(failed(a.Path, KindFilesystem, "write converted", err))
			}
			if err := os.Remove(a.Path); err != nil {
				return single(failed(a.Path, KindFilesystem, "remove original", err))
			}
			return single(applied(a.Path, dest, "converted to "+target))
		}

		destDir := filepath.Join(outRoot, a.RelDir())
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return single(failed(a.Path, KindFilesystem, "create destination", err))
		}
		dest := filepath.Join(destDir, name)
		if err := writeImageExclusive(dest, img, format, cfg.JPEGQuality); err != nil {
			return single(failed(a.Path, KindFilesystem, "write converted", err))
		}
		return PairOutcome{
			Asset:   applied(a.Path, dest, "converted to "+target),
			Caption: op.CopyCaption(a.Path, destDir, a.Base()),
		}
	}), nil
}
