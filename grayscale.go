package sculptor

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Grayscale statistic defaults. The values carry no derivation; they are
// tuning knobs.
const (
	DefaultThumbnailSize = 40
	DefaultMSECutoff     = 22
)

// Caption labels commonly appended to grayscale captions.
const (
	LabelMonochrome    = "Monochrome"
	LabelBlackAndWhite = "Black and White"
	LabelGreyscale     = "Greyscale"
	LabelAllGrayscale  = "Monochrome, Black and White, Greyscale"
)

// Verdict is the grayscale classification of an image.
type Verdict int

const (
	VerdictUnsupported Verdict = iota
	VerdictGrayscale
	VerdictColor
)

func (v Verdict) String() string {
	switch v {
	case VerdictGrayscale:
		return "grayscale"
	case VerdictColor:
		return "color"
	default:
		return "unsupported"
	}
}

// GrayscaleParams tunes ClassifyGrayscale. Fields are used literally, except a
// non-positive ThumbnailSize which falls back to DefaultThumbnailSize.
type GrayscaleParams struct {
	ThumbnailSize         int
	MSECutoff             float64
	DisableBiasCorrection bool
}

// DefaultGrayscaleParams returns the stock thumbnail size, cutoff and bias correction.
func DefaultGrayscaleParams() GrayscaleParams {
	return GrayscaleParams{ThumbnailSize: DefaultThumbnailSize, MSECutoff: DefaultMSECutoff}
}

type channelLayout int

const (
	layoutUnknown channelLayout = iota
	layoutSingle
	layoutRGB
)

// layoutOf maps decoded image types to their channel layout. Paletted images
// carry RGB palette entries and are measured like RGB.
func layoutOf(img image.Image) channelLayout {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return layoutSingle
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64,
		*image.YCbCr, *image.NYCbCrA, *image.Paletted:
		return layoutRGB
	default:
		return layoutUnknown
	}
}

// ClassifyGrayscale decides whether img is grayscale. It is a pure function of
// the pixels and params, and also returns the measured statistic (0 when the
// image is single-channel or unsupported).
//
// The image is reduced to a square thumbnail. With bias correction, each
// channel's mean (0-255 scale) minus the mean of the three channel means is
// subtracted from that channel's per-pixel deviation from the pixel intensity
// (values normalized to [0,1]). The summed squared residuals divided by the
// thumbnail area form the MSE; MSE <= cutoff means grayscale.
func ClassifyGrayscale(img image.Image, p GrayscaleParams) (Verdict, float64) {
	switch layoutOf(img) {
	case layoutSingle:
		return VerdictGrayscale, 0
	case layoutUnknown:
		return VerdictUnsupported, 0
	}

	size := p.ThumbnailSize
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	thumb := resize.Resize(uint(size), uint(size), img, resize.NearestNeighbor)
	px := thumbnailPixels(thumb)

	var bias [3]float64
	if !p.DisableBiasCorrection && len(px) > 0 {
		var sum [3]float64
		for _, c := range px {
			sum[0] += float64(c.R)
			sum[1] += float64(c.G)
			sum[2] += float64(c.B)
		}
		n := float64(len(px))
		mean := [3]float64{sum[0] / n, sum[1] / n, sum[2] / n}
		avg := (mean[0] + mean[1] + mean[2]) / 3
		for i := range bias {
			bias[i] = mean[i] - avg
		}
	}

	var sse float64
	for _, c := range px {
		ch := [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
		mu := float64(int(c.R)+int(c.G)+int(c.B)) / 765
		for i := range ch {
			d := ch[i] - mu - bias[i]
			sse += d * d
		}
	}

	mse := sse / float64(size*size)
	if mse <= p.MSECutoff {
		return VerdictGrayscale, mse
	}
	return VerdictColor, mse
}

// thumbnailPixels flattens img into non-premultiplied 8-bit pixels.
func thumbnailPixels(img image.Image) []color.NRGBA {
	b := img.Bounds()
	px := make([]color.NRGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px = append(px, color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA))
		}
	}
	return px
}
