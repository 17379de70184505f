// Package media inspects upload payloads and extracts the few properties the
// Works upload protocol needs: pixel dimensions for images and the running
// time for videos.
package media

import (
	"fmt"
	"strings"
)

// Kind identifies the media category of an upload.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

// Works message type codes sent as msgType and x-type.
const (
	MsgTypeImage = 11
	MsgTypeVideo = 14
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// MsgType returns the Works message type code for the kind, or 0.
func (k Kind) MsgType() int {
	switch k {
	case KindImage:
		return MsgTypeImage
	case KindVideo:
		return MsgTypeVideo
	default:
		return 0
	}
}

// DefaultContentType is the part content type sent when detection is off or
// the payload does not sniff as the kind's family.
func (k Kind) DefaultContentType() string {
	switch k {
	case KindImage:
		return "image/png"
	case KindVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// ParseKind parses "image" or "video".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image":
		return KindImage, nil
	case "video":
		return KindVideo, nil
	default:
		return KindUnknown, fmt.Errorf("unknown media kind %q", s)
	}
}
