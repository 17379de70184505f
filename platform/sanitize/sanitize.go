// Package sanitize provides text sanitization for values placed in request
// headers and multipart part headers.
package sanitize

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var quotedHeaderEscaper = strings.NewReplacer(
	"\r", "",
	"\n", "",
	`"`, "%22",
)

// Filename normalizes a file name to NFC and drops any directory component.
// Files picked on macOS arrive decomposed (NFD); the web client sends NFC.
func Filename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return norm.NFC.String(name)
}

// QuotedHeaderValue makes s safe inside a quoted-string of a part header,
// e.g. filename="..." in Content-Disposition. CR and LF are removed and
// double quotes are percent-encoded the way browsers do.
func QuotedHeaderValue(s string) string {
	return quotedHeaderEscaper.Replace(s)
}
