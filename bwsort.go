package sculptor

import (
	"context"
	"fmt"
	"image"
)

// DefaultFilenameLabel is added to grayscale basenames when LabelFilename is set.
const DefaultFilenameLabel = "_BW"

// GrayscaleOpts configures SortGrayscale.
type GrayscaleOpts struct {
	Scope

	// Params tunes the statistic; the zero value means DefaultGrayscaleParams().
	Params GrayscaleParams

	LabelFilename bool
	FilenameLabel string        // default "_BW"
	LabelPosition LabelPosition // where FilenameLabel goes in the basename

	// CaptionLabel, when Text is set, is written into the caption at the
	// pair's final location.
	CaptionLabel CaptionLabel

	// Transfer relocates grayscale pairs into <OutputDir>/DS_Monochrome.
	Transfer Transfer

	// UseVision asks Config.Classifier instead of computing the statistic.
	UseVision bool
	Question  string // default GrayscaleQuestion
}

// SortGrayscale classifies every image and, for grayscale ones, applies the
// configured rename, relocation and caption label as one pair operation.
// Color and unsupported images are skipped.
func (cfg *Config) SortGrayscale(ctx context.Context, opts GrayscaleOpts) (*BatchReport, error) {
	cfg.defaults()
	if opts.Params == (GrayscaleParams{}) {
		opts.Params = DefaultGrayscaleParams()
	}
	if opts.FilenameLabel == "" {
		opts.FilenameLabel = DefaultFilenameLabel
	}
	if opts.Question == "" {
		opts.Question = GrayscaleQuestion
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	destDir := scope.dest(DirMonochrome)
	op := PairedFileOperator{}
	return cfg.runBatch(ctx, "grayscale", scope.catalog(destDir), func(ctx context.Context, a Asset) PairOutcome {
		verdict, reason, res := cfg.grayscaleVerdict(ctx, a, opts)
		if res != nil {
			return *res
		}
		switch verdict {
		case VerdictUnsupported:
			return single(skipped(a.Path, KindUnsupportedFormat, "unsupported channel layout", nil))
		case VerdictColor:
			return single(skipped(a.Path, KindNone, reason, nil))
		}

		pairOp, ok := grayscaleOperation(a, opts, destDir)
		if !ok {
			return single(skipped(a.Path, KindNone, reason+" (no action configured)", nil))
		}
		return op.Apply(pairOp, a)
	}), nil
}

// grayscaleVerdict classifies a. A non-nil PairOutcome means the asset could
// not be read.
func (cfg *Config) grayscaleVerdict(ctx context.Context, a Asset, opts GrayscaleOpts) (Verdict, string, *PairOutcome) {
	if opts.UseVision && cfg.Classifier != nil {
		v := cfg.askGrayscale(ctx, a, opts.Question)
		return v, "vision: " + v.String(), nil
	}
	img, err := decodeFile(a.Path)
	if err != nil {
		res := single(skipped(a.Path, KindUnreadableFile, "decode", err))
		return VerdictUnsupported, "", &res
	}
	v, mse := ClassifyGrayscale(img, opts.Params)
	return v, fmt.Sprintf("%s (mse %.3f, %s)", v, mse, colorModelName(img)), nil
}

func grayscaleOperation(a Asset, opts GrayscaleOpts, destDir string) (Operation, bool) {
	newBase := ""
	if opts.LabelFilename {
		newBase = LabelName(a.Base(), opts.FilenameLabel, opts.LabelPosition)
	}

	var op Operation
	switch opts.Transfer {
	case TransferCopy:
		op = Copy(destDir).Named(newBase)
	case TransferMove:
		op = Move(destDir).Named(newBase)
	default:
		switch {
		case newBase != "":
			op = Rename(newBase)
		case opts.CaptionLabel.Text != "":
			op = Operation{Kind: OpLabel}
		default:
			return Operation{}, false
		}
	}
	if opts.CaptionLabel.Text != "" {
		op = op.WithCaptionLabel(opts.CaptionLabel)
	}
	return op, true
}

func colorModelName(img image.Image) string {
	switch layoutOf(img) {
	case layoutSingle:
		return "single channel"
	case layoutRGB:
		return "rgb"
	default:
		return "other"
	}
}
