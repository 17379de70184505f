// Package transport provides DTOs for the Works upload protocol.
package transport

// Fixed protocol values sent by the web client.
const (
	ChannelTypeGroup  = 10
	StorageServiceKey = "oneapp"
	CodeSuccess       = 200
)

// IssueResourcePathRequest is the JSON body of the issueResourcePath call.
type IssueResourcePathRequest struct {
	ServiceID   string `json:"serviceId" validate:"required"`
	ChannelNo   int64  `json:"channelNo" validate:"required,gt=0"`
	Filename    string `json:"filename" validate:"required,basename"`
	FileSize    int    `json:"filesize" validate:"gt=0"`
	MsgType     int    `json:"msgType" validate:"oneof=11 14"`
	ChannelType int    `json:"channelType" validate:"eq=10"`
	// FileData is the base64 payload; only images send it.
	FileData string `json:"fileData,omitempty"`
}

// IssueResourcePathResponse is the talk host's answer to issueResourcePath.
type IssueResourcePathResponse struct {
	Code         int    `json:"code"`
	Message      string `json:"message,omitempty"`
	ResourcePath string `json:"resourcePath,omitempty"`
}

// ResourcePathToken is an issued storage path. It is consumed by exactly one
// upload.
type ResourcePathToken struct {
	Path string
	Code int
}

// OK reports whether the backend issued a usable path.
func (t *ResourcePathToken) OK() bool {
	return t != nil && t.Code == CodeSuccess && t.Path != ""
}

// UploadResult is the terminal value of a run. Raw holds the decoded storage
// response when there was one.
type UploadResult struct {
	Code int            `json:"code"`
	Raw  map[string]any `json:"raw,omitempty"`
}

// Success reports whether the storage host confirmed the upload.
func (r *UploadResult) Success() bool {
	return r != nil && r.Code == CodeSuccess
}

// LocalFailure returns the result reported when the run stopped on this side
// of the wire.
func LocalFailure() *UploadResult {
	return &UploadResult{Code: -1}
}
