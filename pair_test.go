package sculptor

import (
	"path/filepath"
	"testing"
)

func TestCaptionPathFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"/d/a.png", "/d/a.txt"},
		{"/d/a.b.JPG", "/d/a.b.txt"},
		{"/d/noext", "/d/noext.txt"},
	}
	for _, tt := range tests {
		if got := CaptionPathFor(tt.in); got != tt.want {
			t.Errorf("CaptionPathFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindCaption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	img := writeFile(t, dir, "a.png", "x")
	if _, ok := FindCaption(img); ok {
		t.Fatal("found caption before it exists")
	}
	want := writeFile(t, dir, "a.txt", "cap")
	got, ok := FindCaption(img)
	if !ok || got != want {
		t.Errorf("FindCaption() = %q, %v", got, ok)
	}
	if _, ok := FindCaption(want); ok {
		t.Error("a caption is not its own caption")
	}
}

func TestIsOrphanCaption(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "withimage.png", "x")
	writeFile(t, dir, "withimage.txt", "c")
	writeFile(t, dir, "withother.psd", "x")
	writeFile(t, dir, "withother.txt", "c")
	writeFile(t, dir, "alone.txt", "c")
	writeFile(t, dir, "dironly/keep", "x")
	writeFile(t, dir, "dironly.txt", "c")

	tests := []struct {
		name string
		want bool
	}{
		{"withimage.txt", false},
		{"withother.txt", false},
		{"alone.txt", true},
		{"dironly.txt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := IsOrphanCaption(filepath.Join(dir, tt.name))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsOrphanCaption(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
