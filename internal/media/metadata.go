package media

// Metadata is the inspection result for one payload. The concrete value is
// ImageMetadata or VideoMetadata.
type Metadata interface {
	Kind() Kind
	// Valid reports whether the payload could be parsed. Invalid metadata
	// must stop the upload before any network call.
	Valid() bool
}

// Dimensioned is implemented by metadata that carries pixel dimensions.
type Dimensioned interface {
	Dimensions() (width, height int)
}

// Timed is implemented by metadata that carries a running time.
type Timed interface {
	RecordTime() float64
}

// ImageMetadata holds the stored pixel size of an image.
type ImageMetadata struct {
	Width  int
	Height int
	// Format is the decoder name ("png", "jpeg", ...), empty when decoding failed.
	Format string
	// Orientation is the EXIF orientation tag (1-8), 0 when absent.
	Orientation int
}

func (m ImageMetadata) Kind() Kind { return KindImage }

func (m ImageMetadata) Valid() bool { return m.Width != 0 && m.Height != 0 }

func (m ImageMetadata) Dimensions() (int, int) { return m.Width, m.Height }

// Rotated reports whether the EXIF orientation swaps width and height on display.
func (m ImageMetadata) Rotated() bool { return m.Orientation >= 5 && m.Orientation <= 8 }

// VideoMetadata holds the running time of a video in seconds.
type VideoMetadata struct {
	DurationSeconds float64
}

func (m VideoMetadata) Kind() Kind { return KindVideo }

func (m VideoMetadata) Valid() bool { return m.DurationSeconds > 0 }

func (m VideoMetadata) RecordTime() float64 { return m.DurationSeconds }
