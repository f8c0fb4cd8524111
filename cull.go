package sculptor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// CullOpts configures Cull. Zero values mean "use defaults":
// MinEdgeLength 0 = 512, and orphan captions are swept unless KeepOrphanCaptions is set.
type CullOpts struct {
	Scope
	MinEdgeLength      int
	KeepOrphanCaptions bool
}

// Cull deletes every image whose shorter edge is below MinEdgeLength. After
// all deletions finish, captions left without any sibling are swept.
func (cfg *Config) Cull(ctx context.Context, opts CullOpts) (*BatchReport, error) {
	cfg.defaults()
	if opts.MinEdgeLength <= 0 {
		opts.MinEdgeLength = DefaultMinEdgeLength
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	op := PairedFileOperator{}
	report := cfg.runBatch(ctx, "cull", scope.catalog(), func(_ context.Context, a Asset) PairOutcome {
		w, h, err := a.Dimensions()
		if err != nil {
			slog.Debug("sculptor: unreadable image", "path", a.Path, "error", err.Error())
			return single(skipped(a.Path, KindUnreadableFile, "decode", err))
		}
		if !ShouldCull(w, h, opts.MinEdgeLength) {
			return single(skipped(a.Path, KindNone, fmt.Sprintf("%dx%d meets minimum edge", w, h), nil))
		}
		return op.Apply(Delete(), a)
	})

	if !opts.KeepOrphanCaptions && ctx.Err() == nil {
		report.addSweep(started, cfg.sweepOrphans(ctx, scope.catalog()))
	}
	return report, nil
}

// sweepOrphans deletes every caption under cat's root that has no sibling
// file left. Callers run it only after all asset mutations of the batch
// have completed.
func (cfg *Config) sweepOrphans(ctx context.Context, cat Catalog) []Outcome {
	cat.Extensions = []string{CaptionExt}
	var out []Outcome
	for caption, err := range cat.Scan(ctx) {
		if err != nil {
			out = append(out, failed(caption.Path, KindFilesystem, "scan", err))
			continue
		}
		if o, ok := removeIfOrphan(caption.Path); ok {
			out = append(out, o)
		}
	}
	return out
}

// removeIfOrphan deletes captionPath when IsOrphanCaption confirms it. ok is
// false when the caption still has a sibling and nothing happened.
func removeIfOrphan(captionPath string) (Outcome, bool) {
	orphan, err := IsOrphanCaption(captionPath)
	if err != nil {
		return failed(captionPath, KindFilesystem, "orphan check", err), true
	}
	if !orphan {
		return Outcome{}, false
	}
	if err := os.Remove(captionPath); err != nil {
		return failed(captionPath, KindFilesystem, "delete orphan caption", err), true
	}
	return applied(captionPath, "", "deleted orphan caption"), true
}
