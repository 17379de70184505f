// Package events provides domain event definitions for the upload pipeline.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"works_uploader/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	NopBus      = events.NopBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// Event names, in the order a successful run publishes them.
const (
	NameUploadInspected    = "upload.inspected"
	NameResourcePathIssued = "upload.path_issued"
	NameResourcePathFailed = "upload.path_failed"
	NameUploadPreflighted  = "upload.preflighted"
	NameUploadCompleted    = "upload.completed"
	NameUploadFailed       = "upload.failed"
)

// UploadInspected is published once the payload has been inspected, whether
// or not the metadata is valid.
type UploadInspected struct {
	BaseEvent
	RunID    uuid.UUID `json:"runId"`
	Filename string    `json:"filename"`
	Kind     string    `json:"kind"`
	FileSize int       `json:"fileSize"`
	Valid    bool      `json:"valid"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
	Duration float64   `json:"duration,omitempty"`
}

func (e UploadInspected) EventName() string { return NameUploadInspected }

// ResourcePathIssued is published when the talk host issued a usable path.
type ResourcePathIssued struct {
	BaseEvent
	RunID        uuid.UUID `json:"runId"`
	ResourcePath string    `json:"resourcePath"`
}

func (e ResourcePathIssued) EventName() string { return NameResourcePathIssued }

// ResourcePathFailed is published when the issue call failed or returned a
// non-success code. The run ends here.
type ResourcePathFailed struct {
	BaseEvent
	RunID uuid.UUID `json:"runId"`
	Code  int       `json:"code"`
	Error string    `json:"error,omitempty"`
}

func (e ResourcePathFailed) EventName() string { return NameResourcePathFailed }

// UploadPreflighted is published after the storage preflight. Status is -1
// when the preflight did not get a response.
type UploadPreflighted struct {
	BaseEvent
	RunID  uuid.UUID `json:"runId"`
	Status int       `json:"status"`
}

func (e UploadPreflighted) EventName() string { return NameUploadPreflighted }

// UploadCompleted is published when the storage host confirmed the upload.
type UploadCompleted struct {
	BaseEvent
	RunID        uuid.UUID `json:"runId"`
	ResourcePath string    `json:"resourcePath"`
	Code         int       `json:"code"`
}

func (e UploadCompleted) EventName() string { return NameUploadCompleted }

// UploadFailed is published for every run that does not complete, including
// runs stopped before any network call.
type UploadFailed struct {
	BaseEvent
	RunID uuid.UUID `json:"runId"`
	Stage string    `json:"stage"`
	Code  int       `json:"code"`
	Error string    `json:"error,omitempty"`
}

func (e UploadFailed) EventName() string { return NameUploadFailed }
