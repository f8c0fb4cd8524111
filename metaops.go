package sculptor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// MetadataOpts configures CaptionsToMetadata and MetadataToCaptions.
type MetadataOpts struct {
	Scope
	// SaveToOutput sends results to <OutputDir>/DS_MetaCaption: tagged image
	// copies (with their captions) or extracted caption files.
	SaveToOutput bool
}

// CaptionsToMetadata embeds each image's sidecar caption into its EXIF
// ImageDescription through cfg.Metadata. Images without a caption are skipped.
func (cfg *Config) CaptionsToMetadata(ctx context.Context, opts MetadataOpts) (*BatchReport, error) {
	cfg.defaults()
	if cfg.Metadata == nil {
		return nil, ErrNoMetadataBridge
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	destDir := scope.dest(DirMetaCaption)
	op := PairedFileOperator{}
	return cfg.runBatch(ctx, "caption-to-metadata", scope.catalog(destDir), func(ctx context.Context, a Asset) PairOutcome {
		caption, ok := FindCaption(a.Path)
		if !ok {
			return single(skipped(a.Path, KindNone, "no caption", nil))
		}
		text, err := os.ReadFile(caption)
		if err != nil {
			return single(failed(a.Path, KindFilesystem, "read caption", err))
		}
		if err := cfg.Metadata.WriteCaption(ctx, a.Path, SanitizeCaption(string(text))); err != nil {
			return single(failed(a.Path, KindMetadata, "write metadata", err))
		}
		if !opts.SaveToOutput {
			return single(applied(a.Path, a.Path, "caption embedded"))
		}
		return op.Apply(Copy(destDir), a)
	}), nil
}

// MetadataToCaptions writes each image's embedded caption to a sidecar
// caption, next to the image or under <OutputDir>/DS_MetaCaption. An existing
// sidecar at that location is replaced.
func (cfg *Config) MetadataToCaptions(ctx context.Context, opts MetadataOpts) (*BatchReport, error) {
	cfg.defaults()
	reader := cfg.MetadataReader
	if reader == nil && cfg.Metadata != nil {
		reader = cfg.Metadata
	}
	if reader == nil {
		return nil, ErrNoMetadataBridge
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	destDir := scope.dest(DirMetaCaption)
	return cfg.runBatch(ctx, "metadata-to-caption", scope.catalog(destDir), func(ctx context.Context, a Asset) PairOutcome {
		text, err := reader.ReadCaption(ctx, a.Path)
		if errors.Is(err, ErrNoCaptionMetadata) {
			return single(skipped(a.Path, KindNone, "no caption metadata", nil))
		}
		if err != nil {
			return single(failed(a.Path, KindMetadata, "read metadata", err))
		}

		dest := CaptionPathFor(a.Path)
		if opts.SaveToOutput {
			if err := os.MkdirAll(destDir, 0o755); err != nil {
				return single(failed(a.Path, KindFilesystem, "create destination", err))
			}
			dest = filepath.Join(destDir, a.Base()+CaptionExt)
		}
		if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
			return single(failed(a.Path, KindFilesystem, "write caption", err))
		}
		c := applied(dest, dest, "caption extracted")
		return PairOutcome{Asset: applied(a.Path, a.Path, "caption extracted"), Caption: &c}
	}), nil
}
