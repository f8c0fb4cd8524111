package sculptor

import (
	"image"
	"image/color"
	"testing"
)

func TestClassifyGrayscale(t *testing.T) {
	t.Parallel()

	palette := image.NewPaletted(image.Rect(0, 0, 64, 64), color.Palette{color.NRGBA{200, 10, 10, 255}})

	tests := []struct {
		name   string
		img    image.Image
		params GrayscaleParams
		want   Verdict
	}{
		{
			name:   "uniform gray rgb at zero cutoff",
			img:    solidNRGBA(80, 60, color.NRGBA{120, 120, 120, 255}),
			params: GrayscaleParams{ThumbnailSize: DefaultThumbnailSize, MSECutoff: 0},
			want:   VerdictGrayscale,
		},
		{
			name:   "single channel image",
			img:    gradient(50, 50, false),
			params: GrayscaleParams{ThumbnailSize: DefaultThumbnailSize, MSECutoff: 0},
			want:   VerdictGrayscale,
		},
		{
			name:   "solid red",
			img:    solidNRGBA(64, 64, color.NRGBA{255, 0, 0, 255}),
			params: DefaultGrayscaleParams(),
			want:   VerdictColor,
		},
		{
			name:   "paletted red",
			img:    palette,
			params: DefaultGrayscaleParams(),
			want:   VerdictColor,
		},
		{
			name:   "cmyk unsupported",
			img:    image.NewCMYK(image.Rect(0, 0, 10, 10)),
			params: DefaultGrayscaleParams(),
			want:   VerdictUnsupported,
		},
		{
			name:   "alpha only unsupported",
			img:    image.NewAlpha(image.Rect(0, 0, 10, 10)),
			params: DefaultGrayscaleParams(),
			want:   VerdictUnsupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, _ := ClassifyGrayscale(tt.img, tt.params)
			if got != tt.want {
				t.Errorf("ClassifyGrayscale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyGrayscaleUniformHasZeroError(t *testing.T) {
	t.Parallel()

	_, mse := ClassifyGrayscale(solidNRGBA(33, 47, color.NRGBA{77, 77, 77, 255}), DefaultGrayscaleParams())
	if mse != 0 {
		t.Errorf("mse = %v, want 0", mse)
	}
}

func TestClassifyGrayscaleDeterministic(t *testing.T) {
	t.Parallel()

	img := stripes(90, 45)
	v1, m1 := ClassifyGrayscale(img, DefaultGrayscaleParams())
	v2, m2 := ClassifyGrayscale(img, DefaultGrayscaleParams())
	if v1 != v2 || m1 != m2 {
		t.Errorf("results differ: (%v, %v) vs (%v, %v)", v1, m1, v2, m2)
	}
}

func TestClassifyGrayscaleBiasCorrection(t *testing.T) {
	t.Parallel()

	img := solidNRGBA(40, 40, color.NRGBA{255, 0, 0, 255})
	_, withBias := ClassifyGrayscale(img, DefaultGrayscaleParams())
	p := DefaultGrayscaleParams()
	p.DisableBiasCorrection = true
	_, without := ClassifyGrayscale(img, p)
	if withBias <= without {
		t.Errorf("bias-corrected mse %v should exceed uncorrected %v", withBias, without)
	}
}

func TestVerdictString(t *testing.T) {
	t.Parallel()

	for v, want := range map[Verdict]string{
		VerdictGrayscale:   "grayscale",
		VerdictColor:       "color",
		VerdictUnsupported: "unsupported",
	} {
		if got := v.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", v, got, want)
		}
	}
}
