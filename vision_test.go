package sculptor

import "testing"

func TestParseGrayscaleAnswer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		answer string
		want   Verdict
	}{
		{"Black and white.", VerdictGrayscale},
		{"It's grayscale", VerdictGrayscale},
		{"greyscale", VerdictGrayscale},
		{"Monochrome, not in color", VerdictGrayscale},
		{"The image is in color.", VerdictColor},
		{"full colour", VerdictColor},
		{"", VerdictUnsupported},
		{"I cannot tell", VerdictUnsupported},
	}
	for _, tt := range tests {
		if got := ParseGrayscaleAnswer(tt.answer); got != tt.want {
			t.Errorf("ParseGrayscaleAnswer(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestIsAffirmative(t *testing.T) {
	t.Parallel()

	for answer, want := range map[string]bool{"Yes.": true, "true": true, "No": false, "": false} {
		if got := IsAffirmative(answer); got != want {
			t.Errorf("IsAffirmative(%q) = %v, want %v", answer, got, want)
		}
	}
}

func TestEncodeDataURL(t *testing.T) {
	t.Parallel()

	if got := EncodeDataURL([]byte("hi"), "image/png"); got != "data:image/png;base64,aGk=" {
		t.Errorf("EncodeDataURL() = %q", got)
	}
	if got := mimeForExt("JPG"); got != "image/jpeg" {
		t.Errorf("mimeForExt(JPG) = %q", got)
	}
}
