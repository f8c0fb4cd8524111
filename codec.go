package sculptor

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// encoderFormats maps writable extensions to encoder names.
var encoderFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
}

// EncodableExtensions lists the extensions Resize and Convert can write.
var EncodableExtensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff"}

var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

var errNoEncoder = errors.New("no encoder for file type")

// normalizeExt lower-cases ext and ensures a leading dot.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func formatForExt(ext string) (string, bool) {
	f, ok := encoderFormats[normalizeExt(ext)]
	return f, ok
}

// sameFormat reports whether two extensions name the same encoding (.jpg and .jpeg do).
func sameFormat(a, b string) bool {
	fa, okA := formatForExt(a)
	fb, okB := formatForExt(b)
	if okA && okB {
		return fa == fb
	}
	return normalizeExt(a) == normalizeExt(b)
}

func mimeForExt(ext string) string {
	if m, ok := mimeTypes[normalizeExt(ext)]; ok {
		return m
	}
	return "application/octet-stream"
}

// decodeFile decodes the image at path with the registered decoders.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func encodeImage(w io.Writer, img image.Image, format string, jpegQuality int) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg":
		return jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: jpegQuality})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return errNoEncoder
}

// flatten composites translucent images onto white, since JPEG has no alpha.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

// scaleImage resamples src to w x h with Catmull-Rom, keeping gray images gray.
func scaleImage(src image.Image, w, h int) image.Image {
	rect := image.Rect(0, 0, w, h)
	var dst draw.Image
	switch src.(type) {
	case *image.Gray:
		dst = image.NewGray(rect)
	case *image.Gray16:
		dst = image.NewGray16(rect)
	default:
		dst = image.NewNRGBA(rect)
	}
	draw.CatmullRom.Scale(dst, rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// writeImageExclusive encodes img into a new file at path; an existing file is an error.
func writeImageExclusive(path string, img image.Image, format string, jpegQuality int) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, errDestinationExists)
		}
		return err
	}
	if err := encodeImage(f, img, format, jpegQuality); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// writeImageAtomic replaces the file at path through a temp file in the same
// directory, so readers never see a partial image.
func writeImageAtomic(path string, img image.Image, format string, jpegQuality int) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sculptor-*"+filepath.Ext(path))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := encodeImage(tmp, img, format, jpegQuality); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
