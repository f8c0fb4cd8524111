package sculptor

import (
	"context"
	"path/filepath"
	"testing"
)

func dedupFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, dir, "large.png", gradient(128, 128, false))
	writeFile(t, dir, "large.txt", "ramp")
	writePNG(t, dir, "small.png", gradient(64, 64, false))
	writeFile(t, dir, "small.txt", "ramp, smaller")
	writePNG(t, dir, "other.png", gradient(64, 64, true))
	return dir
}

func TestDedupeDelete(t *testing.T) {
	t.Parallel()

	dir := dedupFixture(t)
	report, err := (&Config{}).Dedupe(context.Background(), DedupOpts{Scope: Scope{InputDir: dir}})
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 1 || report.Skipped != 2 {
		t.Errorf("applied %d skipped %d", report.Applied, report.Skipped)
	}
	if exists(filepath.Join(dir, "small.png")) || exists(filepath.Join(dir, "small.txt")) {
		t.Error("duplicate pair not removed")
	}
	for _, name := range []string{"large.png", "large.txt", "other.png"} {
		if !exists(filepath.Join(dir, name)) {
			t.Errorf("%s removed", name)
		}
	}
	if report.CaptionsApplied != 1 || len(report.Sweep) != 1 {
		t.Errorf("captions %d sweep %d", report.CaptionsApplied, len(report.Sweep))
	}
}

func TestDedupeMove(t *testing.T) {
	t.Parallel()

	dir := dedupFixture(t)
	report, err := (&Config{}).Dedupe(context.Background(), DedupOpts{Scope: Scope{InputDir: dir}, Transfer: TransferMove})
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 1 || report.CaptionsApplied != 1 {
		t.Errorf("applied %d captions %d", report.Applied, report.CaptionsApplied)
	}
	for _, name := range []string{"small.png", "small.txt"} {
		if !exists(filepath.Join(dir, DirDuplicates, name)) {
			t.Errorf("%s not in %s", name, DirDuplicates)
		}
	}
}

func TestGroupDuplicatesKeepsLargest(t *testing.T) {
	t.Parallel()

	dir := dedupFixture(t)
	report, err := (&Config{}).Dedupe(context.Background(), DedupOpts{Scope: Scope{InputDir: dir}, Transfer: TransferCopy})
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range report.Outcomes {
		if filepath.Base(o.Asset.Path) == "large.png" && o.Asset.Status != StatusSkipped {
			t.Errorf("largest image status = %v, want kept", o.Asset.Status)
		}
	}
}
