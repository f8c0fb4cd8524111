package sculptor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// assetFunc decides and acts on one asset.
type assetFunc func(ctx context.Context, a Asset) PairOutcome

// runBatch evaluates every asset of cat once with fn and reduces the outcomes
// into a report after all workers finish.
func (cfg *Config) runBatch(ctx context.Context, op string, cat Catalog, fn assetFunc) *BatchReport {
	started := time.Now()
	col := &collector{onOutcome: cfg.OnOutcome}

	cfg.each(ctx, op, cat, col, func(ctx context.Context, a Asset) {
		col.add(fn(ctx, a))
	})

	report := newReport(op, started, col.outcomes)
	slog.Debug("sculptor: batch done", "op", op, "run", report.RunID,
		"applied", report.Applied, "skipped", report.Skipped, "failed", report.Failed,
		"asymmetric", report.Asymmetric, "elapsed", report.Elapsed)
	return report
}

// each scans cat on the calling goroutine and fans assets out to at most
// cfg.Workers goroutines. Scan errors are recorded as failures. Cancelling
// ctx stops new work; work already started completes. It returns once every
// worker is done.
func (cfg *Config) each(ctx context.Context, op string, cat Catalog, col *collector, fn func(context.Context, Asset)) {
	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	for asset, err := range cat.Scan(ctx) {
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			slog.Warn("sculptor: scan error", "op", op, "path", asset.Path, "error", err.Error())
			col.add(single(failed(asset.Path, KindFilesystem, "scan", err)))
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					if cfg.OnPanic != nil {
						cfg.OnPanic(op, r)
					}
					col.add(single(failed(asset.Path, KindFilesystem, "panic", fmt.Errorf("%v", r))))
				}
			}()
			fn(ctx, asset)
			return nil
		})
	}
	_ = g.Wait()
}
