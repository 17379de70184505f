package upload

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"works_uploader/internal/events"
	"works_uploader/internal/media"
	"works_uploader/internal/works"
	"works_uploader/internal/works/client"
	"works_uploader/internal/works/transport"
	"works_uploader/platform/apperr"
	"works_uploader/platform/logger"
	"works_uploader/platform/sanitize"
	"works_uploader/platform/validator"
)

// Pipeline runs uploads strictly in sequence: a storage call is only made
// after a resource path was issued.
type Pipeline struct {
	api        works.UploadAPI
	inspectors media.Inspectors
	validator  *validator.Validator
	bus        events.Bus
	log        *logger.Logger
	newRunID   func() uuid.UUID
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithInspectors replaces the media inspectors.
func WithInspectors(in media.Inspectors) Option {
	return func(p *Pipeline) {
		if in != nil {
			p.inspectors = in
		}
	}
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(gen func() uuid.UUID) Option {
	return func(p *Pipeline) {
		if gen != nil {
			p.newRunID = gen
		}
	}
}

// New creates a pipeline. A nil bus discards events.
func New(api works.UploadAPI, bus events.Bus, log *logger.Logger, opts ...Option) *Pipeline {
	if bus == nil {
		bus = events.NopBus{}
	}
	if log == nil {
		log = logger.Discard()
	}

	v := validator.New()
	_ = v.RegisterValidation("mediakind", isMediaKind)

	p := &Pipeline{
		api:        api,
		inspectors: media.DefaultInspectors(),
		validator:  v,
		bus:        bus,
		log:        log,
		newRunID:   uuid.New,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run uploads one file. The returned result is never nil. err is nil only
// when the storage host confirmed the upload; its apperr kind tells where the
// run stopped, and the result code follows apperr.ResultCode.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	runID := p.newRunID()
	ctx = logger.ContextWithRunID(ctx, runID.String())
	log := p.log.WithContext(ctx)
	res := &Result{RunID: runID, Stage: StageInspecting}

	if err := p.validator.Struct(req); err != nil {
		return p.fail(ctx, res, StageInvalid, req.Filename,
			apperr.Wrap(apperr.KindLocalPrecondition, "invalid upload request", err).WithOp("inspect"))
	}

	filename := sanitize.Filename(req.Filename)
	meta := p.inspectors.Inspect(req.Payload, req.Kind)
	res.Metadata = meta
	p.bus.Publish(ctx, inspectedEvent(runID, filename, req, meta))

	if meta == nil || !meta.Valid() {
		return p.fail(ctx, res, StageInvalid, filename,
			apperr.Precondition(fmt.Sprintf("unparsable %s payload", req.Kind)).WithOp("inspect"))
	}
	log.UploadStage(string(StageInspecting), filename, 0, nil)

	res.Stage = StageIssuingPath
	token, err := p.api.IssueResourcePath(ctx, filename, req.Payload, req.ChannelNo, req.Kind)
	if err == nil {
		err = checkToken(token)
	}
	if err != nil {
		p.bus.Publish(ctx, events.ResourcePathFailed{
			BaseEvent: events.NewBaseEvent(),
			RunID:     runID,
			Code:      apperr.ResultCode(err),
			Error:     err.Error(),
		})
		return p.fail(ctx, res, StagePathFailed, filename, err)
	}

	res.ResourcePath = token.Path
	p.bus.Publish(ctx, events.ResourcePathIssued{BaseEvent: events.NewBaseEvent(), RunID: runID, ResourcePath: token.Path})
	log.UploadStage(string(StageIssuingPath), filename, token.Code, nil)

	res.Stage = StagePreflighting
	status, err := p.api.Preflight(ctx, token.Path)
	if err != nil {
		log.Warn("preflight failed, continuing with upload", "error", err)
		status = apperr.LocalFailureCode
	}
	p.bus.Publish(ctx, events.UploadPreflighted{BaseEvent: events.NewBaseEvent(), RunID: runID, Status: status})
	log.UploadStage(string(StagePreflighting), filename, status, nil)

	res.Stage = StageUploading
	result, err := p.api.Upload(ctx, client.UploadInput{
		ResourcePath: token.Path,
		Filename:     filename,
		Payload:      req.Payload,
		Kind:         req.Kind,
		Metadata:     meta,
		ChannelNo:    req.ChannelNo,
		CallerNo:     req.CallerNo,
	})
	if result == nil {
		result = transport.LocalFailure()
	}
	res.UploadResult = *result
	if err == nil && !result.Success() {
		err = apperr.Rejected("upload rejected", result.Code).WithOp("upload")
	}
	if err != nil {
		return p.fail(ctx, res, StageUploadFailed, filename, err)
	}

	res.Stage = StageDone
	p.bus.Publish(ctx, events.UploadCompleted{
		BaseEvent:    events.NewBaseEvent(),
		RunID:        runID,
		ResourcePath: token.Path,
		Code:         res.Code,
	})
	log.UploadStage(string(StageDone), filename, res.Code, nil)
	return res, nil
}

func (p *Pipeline) fail(ctx context.Context, res *Result, stage Stage, filename string, err error) (*Result, error) {
	failedAt := res.Stage
	res.Stage = stage
	res.Code = apperr.ResultCode(err)

	p.bus.Publish(ctx, events.UploadFailed{
		BaseEvent: events.NewBaseEvent(),
		RunID:     res.RunID,
		Stage:     string(failedAt),
		Code:      res.Code,
		Error:     err.Error(),
	})
	p.log.WithContext(ctx).UploadStage(string(stage), filename, res.Code, err)
	return res, err
}

// checkToken stops the run unless the talk host issued a usable path.
func checkToken(token *transport.ResourcePathToken) error {
	switch {
	case token.OK():
		return nil
	case token == nil || token.Code == transport.CodeSuccess:
		return apperr.Malformed("response has no resource path", apperr.LocalFailureCode, nil).WithOp("issue resource path")
	default:
		return apperr.Rejected("resource path not issued", token.Code).WithOp("issue resource path")
	}
}

func inspectedEvent(runID uuid.UUID, filename string, req Request, meta media.Metadata) events.UploadInspected {
	evt := events.UploadInspected{
		BaseEvent: events.NewBaseEvent(),
		RunID:     runID,
		Filename:  filename,
		Kind:      req.Kind.String(),
		FileSize:  len(req.Payload),
		Valid:     meta != nil && meta.Valid(),
	}
	if d, ok := meta.(media.Dimensioned); ok {
		evt.Width, evt.Height = d.Dimensions()
	}
	if t, ok := meta.(media.Timed); ok {
		evt.Duration = t.RecordTime()
	}
	return evt
}
