package sculptor

import (
	"context"
	"errors"
	"image/color"
	"path/filepath"
	"testing"
)

func TestConvertInPlace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writePNG(t, dir, "a.png", solidNRGBA(20, 10, color.NRGBA{10, 200, 10, 128}))
	caption := writeFile(t, dir, "a.txt", "green")

	report, err := (&Config{}).Convert(context.Background(), ConvertOpts{Scope: Scope{InputDir: dir}, TargetExtension: "jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 1 {
		t.Fatalf("applied %d: %+v", report.Applied, report.Outcomes)
	}
	dest := filepath.Join(dir, "a.jpg")
	if exists(src) || !exists(dest) {
		t.Error("original not replaced")
	}
	if w, h := imageSize(t, dest); w != 20 || h != 10 {
		t.Errorf("converted size %dx%d", w, h)
	}
	if _, ok := FindCaption(dest); !ok || readFile(t, caption) != "green" {
		t.Error("caption no longer pairs with the converted image")
	}
}

func TestConvertSkipsTargetFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "a.png", solidNRGBA(4, 4, color.NRGBA{1, 1, 1, 255}))
	writeFile(t, dir, "b.jpeg", "not decoded")

	report, err := (&Config{}).Convert(context.Background(), ConvertOpts{Scope: Scope{InputDir: dir}, TargetExtension: ".jpg"})
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range report.Outcomes {
		if filepath.Base(o.Asset.Path) == "b.jpeg" && o.Asset.Status != StatusSkipped {
			t.Errorf("b.jpeg status = %v, want skipped", o.Asset.Status)
		}
	}
}

func TestConvertPreserveOriginals(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := t.TempDir()
	src := writePNG(t, dir, "a.png", solidNRGBA(8, 8, color.NRGBA{1, 2, 3, 255}))
	writeFile(t, dir, "a.txt", "c")

	report, err := (&Config{}).Convert(context.Background(), ConvertOpts{
		Scope:             Scope{InputDir: dir, OutputDir: out},
		TargetExtension:   ".bmp",
		PreserveOriginals: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 1 || report.CaptionsApplied != 1 {
		t.Fatalf("applied %d captions %d", report.Applied, report.CaptionsApplied)
	}
	if !exists(src) {
		t.Error("original removed")
	}
	for _, name := range []string{"a.bmp", "a.txt"} {
		if !exists(filepath.Join(out, DirConverted, name)) {
			t.Errorf("%s missing from output", name)
		}
	}
}

func TestConvertUnsupportedTarget(t *testing.T) {
	t.Parallel()

	_, err := (&Config{}).Convert(context.Background(), ConvertOpts{Scope: Scope{InputDir: t.TempDir()}, TargetExtension: ".webp"})
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("err = %v, want ErrUnsupportedTarget", err)
	}
}

func TestSameFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{".jpg", ".jpeg", true},
		{"JPG", ".jpeg", true},
		{".tif", ".tiff", true},
		{".png", ".jpg", false},
		{".webp", ".webp", true},
	}
	for _, tt := range tests {
		if got := sameFormat(tt.a, tt.b); got != tt.want {
			t.Errorf("sameFormat(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
