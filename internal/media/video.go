package media

import (
	"bytes"
	"encoding/binary"
)

var mvhdMarker = []byte("mvhd")

// Offsets from the start of the mvhd marker.
const (
	mvhdTimescaleOffset = 16
	mvhdDurationOffset  = 20
)

// InspectVideo reads the movie running time from the mvhd box.
func InspectVideo(payload []byte) Metadata {
	return VideoMetadata{DurationSeconds: MP4Duration(payload)}
}

// MP4Duration locates the first mvhd marker and returns duration/timescale in
// seconds. A missing marker, a truncated header or a zero timescale yields 0.
// Only the 32-bit (version 0) field layout is read.
func MP4Duration(payload []byte) float64 {
	pos := bytes.Index(payload, mvhdMarker)
	if pos < 0 {
		return 0
	}
	if len(payload) < pos+mvhdDurationOffset+4 {
		return 0
	}

	timescale := binary.BigEndian.Uint32(payload[pos+mvhdTimescaleOffset:])
	units := binary.BigEndian.Uint32(payload[pos+mvhdDurationOffset:])
	if timescale == 0 {
		return 0
	}
	return float64(units) / float64(timescale)
}
