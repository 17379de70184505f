package media

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// syntheticMP4 builds an ftyp box followed by a moov/mvhd header with the
// given timescale and duration.
func syntheticMP4(timescale, duration uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0x18})
	buf.WriteString("ftypisom")
	buf.Write([]byte{0, 0, 0x02, 0})
	buf.WriteString("isommp41")

	buf.Write([]byte{0, 0, 0, 0x6c})
	buf.WriteString("moov")
	buf.Write([]byte{0, 0, 0, 0x64})
	buf.WriteString("mvhd")
	buf.Write(make([]byte, 12)) // version, flags, creation, modification
	_ = binary.Write(&buf, binary.BigEndian, timescale)
	_ = binary.Write(&buf, binary.BigEndian, duration)
	buf.Write(make([]byte, 80))
	return buf.Bytes()
}
