// Package upload sequences a single media upload through inspection,
// resource path issuance, preflight and the storage upload.
package upload

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"works_uploader/internal/media"
	"works_uploader/internal/works/transport"
)

// Stage is a state of the upload state machine.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageInspecting   Stage = "inspecting"
	StageInvalid      Stage = "invalid"
	StageIssuingPath  Stage = "issuing_path"
	StagePathFailed   Stage = "path_failed"
	StagePreflighting Stage = "preflighting"
	StageUploading    Stage = "uploading"
	StageDone         Stage = "done"
	StageUploadFailed Stage = "upload_failed"
)

// Terminal reports whether no transition leaves the stage.
func (s Stage) Terminal() bool {
	switch s {
	case StageInvalid, StagePathFailed, StageDone, StageUploadFailed:
		return true
	default:
		return false
	}
}

// Request is one file to upload. It is not modified by the pipeline.
type Request struct {
	Filename  string     `validate:"required,basename"`
	Payload   []byte     `validate:"required,min=1"`
	ChannelNo int64      `validate:"gt=0"`
	CallerNo  string     `validate:"required"`
	Kind      media.Kind `validate:"mediakind"`
}

// Result is the terminal value of a run.
type Result struct {
	transport.UploadResult
	RunID        uuid.UUID
	Stage        Stage
	ResourcePath string
	Metadata     media.Metadata
}

// isMediaKind accepts the kinds the pipeline can upload.
func isMediaKind(fl validator.FieldLevel) bool {
	switch media.Kind(fl.Field().Int()) {
	case media.KindImage, media.KindVideo:
		return true
	default:
		return false
	}
}
