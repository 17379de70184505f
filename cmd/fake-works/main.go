package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"works_uploader/internal/worksfake"
	"works_uploader/platform/config"
	"works_uploader/platform/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadBase()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := worksfake.New(cfg, log, worksfake.Options{
		SessionCookies: cfg.GetFakeSessionCookies(),
		AllowedOrigins: cfg.GetFakeCORSOrigins(),
	})

	err = worksfake.Serve(ctx, log,
		&http.Server{Addr: cfg.GetFakeTalkAddr(), Handler: backend.TalkEngine(), ReadHeaderTimeout: 10 * time.Second},
		&http.Server{Addr: cfg.GetFakeStorageAddr(), Handler: backend.StorageEngine(), ReadHeaderTimeout: 10 * time.Second},
	)
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("fake works hosts stopped")
}
