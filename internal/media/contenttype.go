package media

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ContentType returns the content type for the multipart part. With detect
// set, the sniffed type is used when it belongs to the kind's family
// (image/* or video/*); otherwise the kind's default is returned.
func ContentType(payload []byte, kind Kind, detect bool) string {
	fallback := kind.DefaultContentType()
	if !detect || len(payload) == 0 {
		return fallback
	}

	detected := mimetype.Detect(payload).String()
	detected, _, _ = strings.Cut(detected, ";")
	detected = strings.TrimSpace(detected)

	if strings.HasPrefix(detected, kind.String()+"/") {
		return detected
	}
	return fallback
}
