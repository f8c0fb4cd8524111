package sculptor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"

	"github.com/bep/imagemeta"
	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoCaptionMetadata is returned when an image carries no caption in its metadata.
var ErrNoCaptionMetadata = errors.New("sculptor: no caption in image metadata")

// NativeMetadataReader reads embedded captions without external tools:
// EXIF ImageDescription (JPEG/TIFF) first, then XMP dc:description or
// EXIF through imagemeta for the remaining formats.
type NativeMetadataReader struct{}

// ReadCaption implements CaptionReader.
func (NativeMetadataReader) ReadCaption(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", err
	}
	if s := exifDescription(data); s != "" {
		return s, nil
	}
	if s := imagemetaDescription(data); s != "" {
		return s, nil
	}
	return "", ErrNoCaptionMetadata
}

// exifDescription extracts EXIF ImageDescription with goexif.
// Returns "" when the data has no EXIF block or no description.
func exifDescription(data []byte) string {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	tag, err := x.Get(exif.ImageDescription)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// descriptionTags maps (source, tag-name) for caption-bearing fields.
var descriptionTags = map[imagemeta.Source]map[string]bool{
	imagemeta.EXIF: {"ImageDescription": true},
	imagemeta.XMP:  {"Description": true, "description": true},
}

// imagemetaDescription extracts a caption via imagemeta. XMP wins over EXIF.
func imagemetaDescription(data []byte) string {
	var exifDesc, xmpDesc string
	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if tags, ok := descriptionTags[ti.Source]; ok {
				return tags[ti.Tag]
			}
			return false
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			s := strings.TrimSpace(tagValueString(ti.Value))
			switch ti.Source {
			case imagemeta.EXIF:
				exifDesc = s
			case imagemeta.XMP:
				xmpDesc = s
			}
			return nil
		},
	})
	if err != nil {
		return ""
	}
	if xmpDesc != "" {
		return xmpDesc
	}
	return exifDesc
}

// tagValueString extracts a string from a tag value.
// XMP values may be string or []string (from altList/seqList).
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}
