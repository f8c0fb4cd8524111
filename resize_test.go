package sculptor

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"
)

func TestResizeInPlace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	big := writePNG(t, dir, "big.png", solidNRGBA(400, 200, color.NRGBA{200, 100, 50, 255}))
	caption := writeFile(t, dir, "big.txt", "wide")
	small := writePNG(t, dir, "small.png", solidNRGBA(100, 100, color.NRGBA{1, 2, 3, 255}))

	report, err := (&Config{}).Resize(context.Background(), ResizeOpts{Scope: Scope{InputDir: dir}, MaxEdgeLength: 100})
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 1 || report.Skipped != 1 {
		t.Errorf("applied %d skipped %d", report.Applied, report.Skipped)
	}
	if w, h := imageSize(t, big); w != 100 || h != 50 {
		t.Errorf("resized to %dx%d, want 100x50", w, h)
	}
	if w, h := imageSize(t, small); w != 100 || h != 100 {
		t.Errorf("small image changed to %dx%d", w, h)
	}
	if readFile(t, caption) != "wide" {
		t.Error("caption changed")
	}
}

func TestResizePreserveOriginals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := t.TempDir()
	src := writePNG(t, dir, "sub/tall.png", solidNRGBA(60, 300, color.NRGBA{9, 9, 9, 255}))
	writeFile(t, dir, "sub/tall.txt", "tall")

	report, err := (&Config{}).Resize(context.Background(), ResizeOpts{
		Scope:             Scope{InputDir: dir, OutputDir: out, Recursive: true},
		MaxEdgeLength:     150,
		PreserveOriginals: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 1 || report.CaptionsApplied != 1 {
		t.Fatalf("applied %d captions %d", report.Applied, report.CaptionsApplied)
	}
	dest := filepath.Join(out, DirReduced, "sub", "tall.png")
	if w, h := imageSize(t, dest); w != 30 || h != 150 {
		t.Errorf("copy is %dx%d, want 30x150", w, h)
	}
	if readFile(t, filepath.Join(out, DirReduced, "sub", "tall.txt")) != "tall" {
		t.Error("caption not copied")
	}
	if w, h := imageSize(t, src); w != 60 || h != 300 {
		t.Errorf("original changed to %dx%d", w, h)
	}
}

func TestResizeSkipsOwnOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "a.png", solidNRGBA(300, 300, color.NRGBA{5, 5, 5, 255}))
	opts := ResizeOpts{Scope: Scope{InputDir: dir, Recursive: true}, MaxEdgeLength: 100, PreserveOriginals: true}

	if _, err := (&Config{}).Resize(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	report, err := (&Config{}).Resize(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Outcomes) != 1 {
		t.Errorf("second run saw %d assets, want 1", len(report.Outcomes))
	}
}
