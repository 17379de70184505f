package client

import (
	"bytes"
)

// multipartBody builds a single-part form body byte for byte the way the web
// client does. mime/multipart is not used because it picks its own part
// headers and line layout.
func multipartBody(boundary, filename, contentType string, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(payload) + len(boundary)*2 + len(filename) + len(contentType) + 128)

	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString(`Content-Disposition: form-data; name="file"; filename="` + filename + `"` + "\r\n")
	buf.WriteString("Content-Type: " + contentType + "\r\n")
	buf.WriteString("\r\n")
	buf.Write(payload)
	buf.WriteString("\r\n--" + boundary + "--")

	return buf.Bytes()
}
