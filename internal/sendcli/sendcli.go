// Package sendcli is the shared composition root of the send-image and
// send-video commands.
package sendcli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"works_uploader/internal/events"
	"works_uploader/internal/media"
	"works_uploader/internal/upload"
	"works_uploader/internal/works"
	"works_uploader/platform/apperr"
	"works_uploader/platform/config"
	"works_uploader/platform/logger"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailed   = 1
	ExitSetupErr = 2
)

// Main loads configuration, uploads the configured file of the given kind
// and returns the process exit code.
func Main(kind media.Kind) int {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Send(ctx, cfg, log, kind)
}

// Send runs one upload with an explicit configuration and logger.
func Send(ctx context.Context, cfg *config.Config, log *logger.Logger, kind media.Kind) int {
	path := filePath(cfg, kind)
	log.Info("starting upload", "kind", kind.String(), "file", path, "channel", cfg.GetChannelNo())

	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Error("file not found", "file", path)
		} else {
			log.Error("failed to read file", "file", path, "error", err)
		}
		return ExitSetupErr
	}
	if len(payload) == 0 {
		log.Error("file is empty", "file", path)
		return ExitSetupErr
	}

	worksModule, err := works.NewModule(cfg, log)
	if err != nil {
		log.Error("failed to initialize works module", "error", err)
		return ExitSetupErr
	}

	bus := events.NewInMemoryBus(log)
	bus.Subscribe(events.Wildcard, events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		log.WithContext(ctx).Debug("upload event", "event", e.EventName())
		return nil
	}))

	pipeline := upload.New(worksModule.Client(), bus, log)
	res, err := pipeline.Run(ctx, upload.Request{
		Filename:  filepath.Base(path),
		Payload:   payload,
		ChannelNo: cfg.GetChannelNo(),
		CallerNo:  cfg.GetCallerNo(),
		Kind:      kind,
	})
	if err != nil {
		log.Error("upload failed",
			"run_id", res.RunID.String(),
			"stage", string(res.Stage),
			"code", res.Code,
			"error_kind", apperr.GetKind(err).String(),
			"error", err,
		)
		return ExitFailed
	}

	log.Info("upload completed",
		"run_id", res.RunID.String(),
		"code", res.Code,
		"resource_path", res.ResourcePath,
		"response", res.Raw,
	)
	return ExitOK
}

func filePath(cfg config.MediaConfig, kind media.Kind) string {
	if kind == media.KindVideo {
		return cfg.GetVideoPath()
	}
	return cfg.GetImagePath()
}
