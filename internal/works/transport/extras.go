package transport

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"works_uploader/internal/media"
)

// Extras is the x-extras header document. Field order is fixed; width and
// height are sent for images, recordtime for videos.
type Extras struct {
	FileSize     int
	Filename     string
	ResourcePath string
	Width        *int
	Height       *int
	RecordTime   *float64
}

// NewExtras builds the header document from the inspected metadata.
func NewExtras(fileSize int, filename, resourcePath string, meta media.Metadata) Extras {
	extras := Extras{
		FileSize:     fileSize,
		Filename:     filename,
		ResourcePath: resourcePath,
	}
	if d, ok := meta.(media.Dimensioned); ok {
		w, h := d.Dimensions()
		extras.Width, extras.Height = &w, &h
	}
	if t, ok := meta.(media.Timed); ok {
		rt := t.RecordTime()
		extras.RecordTime = &rt
	}
	return extras
}

// HeaderValue renders the document the way the web client does: ", " and
// ": " separators, every non-ASCII character escaped as \uXXXX.
func (e Extras) HeaderValue() string {
	var b strings.Builder
	b.WriteByte('{')

	field := func(name, value string) {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		b.WriteString(quoteASCII(name))
		b.WriteString(": ")
		b.WriteString(value)
	}

	field("filesize", strconv.Itoa(e.FileSize))
	field("filename", quoteASCII(e.Filename))
	field("resourcepath", quoteASCII(e.ResourcePath))
	if e.Width != nil {
		field("width", strconv.Itoa(*e.Width))
	}
	if e.Height != nil {
		field("height", strconv.Itoa(*e.Height))
	}
	if e.RecordTime != nil {
		field("recordtime", formatFloat(*e.RecordTime))
	}

	b.WriteByte('}')
	return b.String()
}

// quoteASCII returns s as a JSON string literal containing only printable ASCII.
func quoteASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			writeEscape(&b, r)
		case r < 0x80:
			b.WriteRune(r)
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			writeEscape(&b, r1)
			writeEscape(&b, r2)
		default:
			writeEscape(&b, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func writeEscape(b *strings.Builder, r rune) {
	const hex = "0123456789abcdef"
	b.WriteString(`\u`)
	b.WriteByte(hex[(r>>12)&0xf])
	b.WriteByte(hex[(r>>8)&0xf])
	b.WriteByte(hex[(r>>4)&0xf])
	b.WriteByte(hex[r&0xf])
}

// formatFloat renders f the way Python's json.dumps does: fixed notation with
// at least one fractional digit for decimal exponents in [-4, 16), shortest
// exponent form outside it.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
