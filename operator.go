package sculptor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// OpKind enumerates the pair mutations.
type OpKind int

const (
	OpDelete OpKind = iota
	OpRename
	OpMove
	OpCopy
	OpLabel
)

func (k OpKind) String() string {
	switch k {
	case OpDelete:
		return "delete"
	case OpRename:
		return "rename"
	case OpMove:
		return "move"
	case OpCopy:
		return "copy"
	default:
		return "label"
	}
}

// Operation describes one mutation of an asset and its caption.
type Operation struct {
	Kind    OpKind
	NewBase string        // Rename target; optional new basename for Move/Copy
	DestDir string        // Move/Copy destination, created on demand
	Label   *CaptionLabel // optional caption content change at the pair's final location
}

// Delete removes the asset. Its caption is left for the orphan sweep.
func Delete() Operation { return Operation{Kind: OpDelete} }

// Rename renames the asset (and caption) in place to newBase.
func Rename(newBase string) Operation { return Operation{Kind: OpRename, NewBase: newBase} }

// Move relocates the pair into destDir.
func Move(destDir string) Operation { return Operation{Kind: OpMove, DestDir: destDir} }

// Copy duplicates the pair into destDir, leaving the source untouched.
func Copy(destDir string) Operation { return Operation{Kind: OpCopy, DestDir: destDir} }

// Relabel changes caption content only.
func Relabel(l CaptionLabel) Operation { return Operation{Kind: OpLabel, Label: &l} }

// Named sets the basename used at the destination of a Move or Copy.
func (op Operation) Named(newBase string) Operation {
	op.NewBase = newBase
	return op
}

// WithCaptionLabel attaches a caption content change to op.
func (op Operation) WithCaptionLabel(l CaptionLabel) Operation {
	op.Label = &l
	return op
}

var errDestinationExists = errors.New("destination already exists")

// PairedFileOperator applies operations to an asset and keeps its caption in
// lockstep. It holds no state about earlier calls and is safe for concurrent use.
type PairedFileOperator struct{}

// Apply performs op on asset, then the matching step on the asset's caption.
// A failed caption step never rolls back a successful asset step; the pair
// outcome reports the divergence instead.
func (o PairedFileOperator) Apply(op Operation, asset Asset) PairOutcome {
	switch op.Kind {
	case OpDelete:
		return o.delete(asset)
	case OpRename:
		return o.rename(op, asset)
	case OpMove, OpCopy:
		return o.transfer(op, asset)
	case OpLabel:
		return o.relabel(op, asset)
	}
	return single(failed(asset.Path, KindFilesystem, "unknown operation", nil))
}

func (o PairedFileOperator) delete(asset Asset) PairOutcome {
	if err := os.Remove(asset.Path); err != nil {
		return single(failed(asset.Path, KindFilesystem, "delete", err))
	}
	return single(applied(asset.Path, "", "deleted"))
}

func (o PairedFileOperator) rename(op Operation, asset Asset) PairOutcome {
	if op.NewBase == "" || op.NewBase == asset.Base() {
		return single(skipped(asset.Path, KindNone, "name unchanged", nil))
	}
	caption, hasCaption := FindCaption(asset.Path)

	dest := filepath.Join(asset.Dir(), op.NewBase+filepath.Ext(asset.Path))
	if err := renameExclusive(asset.Path, dest); err != nil {
		return single(failed(asset.Path, KindFilesystem, "rename", err))
	}
	out := PairOutcome{Asset: applied(asset.Path, dest, "renamed")}
	if hasCaption {
		capDest := filepath.Join(asset.Dir(), op.NewBase+CaptionExt)
		c := o.captionStep(caption, capDest, op, func() error { return renameExclusive(caption, capDest) })
		out.Caption = &c
	}
	return out
}

func (o PairedFileOperator) transfer(op Operation, asset Asset) PairOutcome {
	if op.DestDir == "" {
		return single(failed(asset.Path, KindFilesystem, "no destination directory", nil))
	}
	if err := os.MkdirAll(op.DestDir, 0o755); err != nil {
		return single(failed(asset.Path, KindFilesystem, "create destination", err))
	}
	caption, hasCaption := FindCaption(asset.Path)

	base := asset.Base()
	if op.NewBase != "" {
		base = op.NewBase
	}
	dest := filepath.Join(op.DestDir, base+filepath.Ext(asset.Path))
	if dest == asset.Path {
		return single(skipped(asset.Path, KindNone, "already at destination", nil))
	}

	verb := op.Kind.String()
	step := moveExclusive
	if op.Kind == OpCopy {
		step = copyExclusive
	}
	if err := step(asset.Path, dest); err != nil {
		return single(failed(asset.Path, KindFilesystem, verb, err))
	}
	out := PairOutcome{Asset: applied(asset.Path, dest, verb)}
	if hasCaption {
		capDest := filepath.Join(op.DestDir, base+CaptionExt)
		c := o.captionStep(caption, capDest, op, func() error { return step(caption, capDest) })
		out.Caption = &c
	}
	return out
}

func (o PairedFileOperator) relabel(op Operation, asset Asset) PairOutcome {
	caption, ok := FindCaption(asset.Path)
	if !ok || op.Label == nil || op.Label.Text == "" {
		return single(skipped(asset.Path, KindNone, "no caption to label", nil))
	}
	c := o.captionStep(caption, caption, op, nil)
	if c.Status != StatusApplied {
		return PairOutcome{Asset: failed(asset.Path, KindFilesystem, "label caption", c.Err), Caption: &c}
	}
	return PairOutcome{Asset: applied(asset.Path, asset.Path, "caption labelled"), Caption: &c}
}

// captionStep runs the caption side of an operation: the file step (if any)
// followed by the optional content label, as one unit.
func (o PairedFileOperator) captionStep(src, dest string, op Operation, fileStep func() error) Outcome {
	if fileStep != nil {
		if err := fileStep(); err != nil {
			slog.Warn("sculptor: caption step failed", "caption", src, "op", op.Kind.String(), "error", err.Error())
			return failed(src, KindAsymmetricPair, op.Kind.String()+" caption", err)
		}
	}
	if op.Label != nil && op.Label.Text != "" {
		if err := op.Label.applyTo(dest); err != nil {
			return failed(src, KindAsymmetricPair, "label caption", err)
		}
	}
	return applied(src, dest, op.Kind.String())
}

// CopyCaption copies the caption of assetPath (if any) into destDir under
// newBase. It returns nil when the asset has no caption.
func (o PairedFileOperator) CopyCaption(assetPath, destDir, newBase string) *Outcome {
	caption, ok := FindCaption(assetPath)
	if !ok {
		return nil
	}
	dest := filepath.Join(destDir, newBase+CaptionExt)
	var out Outcome
	if err := copyExclusive(caption, dest); err != nil {
		out = failed(caption, KindAsymmetricPair, "copy caption", err)
	} else {
		out = applied(caption, dest, "copy")
	}
	return &out
}

func checkFree(dest string) error {
	if _, err := os.Lstat(dest); err == nil {
		return fmt.Errorf("%s: %w", dest, errDestinationExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func renameExclusive(src, dest string) error {
	if err := checkFree(dest); err != nil {
		return err
	}
	return os.Rename(src, dest)
}

// moveExclusive renames src to dest, falling back to copy+remove when the
// rename crosses devices.
func moveExclusive(src, dest string) error {
	if err := checkFree(dest); err != nil {
		return err
	}
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyExclusive(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyExclusive copies src to a new file dest, keeping the file mode.
func copyExclusive(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", dest, errDestinationExists)
		}
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
