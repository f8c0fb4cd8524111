package sculptor

import (
	"context"
	"fmt"
)

// SubstringOpts configures MoveBySubstring. Selector must come from
// NewSubstringSelector. TransferNone is treated as TransferMove.
type SubstringOpts struct {
	Scope
	Selector SubstringSelector
	Transfer Transfer
}

// MoveBySubstring moves or copies every pair whose path relative to the
// input directory contains the selector's needle into <OutputDir>/DS_String.
func (cfg *Config) MoveBySubstring(ctx context.Context, opts SubstringOpts) (*BatchReport, error) {
	cfg.defaults()
	if !opts.Selector.Valid() {
		return nil, fmt.Errorf("%w: selector not configured", ErrNeedleTooShort)
	}
	scope, err := opts.Scope.resolve()
	if err != nil {
		return nil, err
	}

	destDir := scope.dest(DirString)
	pairOp := Move(destDir)
	if opts.Transfer == TransferCopy {
		pairOp = Copy(destDir)
	}
	op := PairedFileOperator{}
	return cfg.runBatch(ctx, "substring", scope.catalog(destDir), func(_ context.Context, a Asset) PairOutcome {
		if !opts.Selector.Matches(a.Rel) {
			return single(skipped(a.Path, KindNone, "no match", nil))
		}
		return op.Apply(pairOp, a)
	}), nil
}
