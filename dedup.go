package sculptor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
)

// DefaultDedupThreshold is the Hamming distance between two dHash values
// below which images are considered perceptually identical.
const DefaultDedupThreshold = 10

// DedupOpts configures Dedupe. Threshold 0 = DefaultDedupThreshold.
// TransferNone deletes duplicates and sweeps their captions.
type DedupOpts struct {
	Scope
	Threshold int
	Transfer  Transfer
}

type hashedAsset struct {
	asset Asset
	hash  *goimagehash.ImageHash
	area  int
}

// Dedupe finds perceptual duplicates. In each group the image with the
// largest pixel area is kept (ties go to the lexically first path); the
// others are moved or copied to <OutputDir>/DS_Duplicates with their
// captions, or deleted.
func (cfg *Config) Dedupe(ctx context.Context, opts DedupOpts) (*BatchReport, error) {
	cfg.defaults()
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultDedupThreshold
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	destDir := scope.dest(DirDuplicates)
	col := &collector{onOutcome: cfg.OnOutcome}

	var mu sync.Mutex
	var hashed []hashedAsset
	cfg.each(ctx, "dedupe", scope.catalog(destDir), col, func(_ context.Context, a Asset) {
		img, err := decodeFile(a.Path)
		if err != nil {
			col.add(single(skipped(a.Path, KindUnreadableFile, "decode", err)))
			return
		}
		hash, err := goimagehash.DifferenceHash(img)
		if err != nil {
			col.add(single(skipped(a.Path, KindUnsupportedFormat, "hash", err)))
			return
		}
		b := img.Bounds()
		mu.Lock()
		hashed = append(hashed, hashedAsset{asset: a, hash: hash, area: b.Dx() * b.Dy()})
		mu.Unlock()
	})
	if ctx.Err() != nil {
		return newReport("dedupe", started, col.outcomes), nil
	}

	keep, dupes := groupDuplicates(hashed, opts.Threshold)
	for _, k := range keep {
		col.add(single(skipped(k.asset.Path, KindNone, "unique", nil)))
	}

	op := PairedFileOperator{}
	var pairOp Operation
	switch opts.Transfer {
	case TransferCopy:
		pairOp = Copy(destDir)
	case TransferMove:
		pairOp = Move(destDir)
	default:
		pairOp = Delete()
	}
	var deleted []string
	for _, d := range dupes {
		res := op.Apply(pairOp, d.dup.asset)
		res.Asset.Reason = fmt.Sprintf("%s (duplicate of %s)", res.Asset.Reason, d.of.asset.Rel)
		col.add(res)
		if pairOp.Kind == OpDelete && res.Asset.Status == StatusApplied {
			deleted = append(deleted, d.dup.asset.Path)
		}
	}

	report := newReport("dedupe", started, col.outcomes)
	if len(deleted) > 0 {
		var sweep []Outcome
		for _, p := range deleted {
			caption, ok := FindCaption(p)
			if !ok {
				continue
			}
			if o, ok := removeIfOrphan(caption); ok {
				sweep = append(sweep, o)
			}
		}
		report.addSweep(started, sweep)
	}
	slog.Debug("sculptor: dedupe done", "run", report.RunID, "kept", len(keep), "duplicates", len(dupes))
	return report, nil
}

type duplicate struct {
	dup hashedAsset
	of  hashedAsset
}

// groupDuplicates walks assets from largest to smallest and marks each one
// that is within threshold of an already kept asset as a duplicate.
func groupDuplicates(assets []hashedAsset, threshold int) (keep []hashedAsset, dupes []duplicate) {
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].area != assets[j].area {
			return assets[i].area > assets[j].area
		}
		return assets[i].asset.Path < assets[j].asset.Path
	})
	for _, a := range assets {
		matched := false
		for _, k := range keep {
			dist, err := a.hash.Distance(k.hash)
			if err == nil && dist < threshold {
				dupes = append(dupes, duplicate{dup: a, of: k})
				matched = true
				break
			}
		}
		if !matched {
			keep = append(keep, a)
		}
	}
	return keep, dupes
}
