package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// InspectImage reads the image header for its pixel size. Undecodable input
// returns zero dimensions rather than an error.
func InspectImage(payload []byte) Metadata {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return ImageMetadata{}
	}

	meta := ImageMetadata{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}
	if format == "jpeg" || format == "tiff" {
		meta.Orientation = exifOrientation(payload)
	}
	return meta
}

func exifOrientation(payload []byte) int {
	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil {
		return 0
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 0
	}
	return v
}
