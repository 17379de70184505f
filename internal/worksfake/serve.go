package worksfake

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"works_uploader/platform/logger"
)

const shutdownTimeout = 10 * time.Second

// Serve runs every server until ctx is cancelled or one of them fails, then
// shuts all of them down. A clean shutdown returns nil.
func Serve(ctx context.Context, log *logger.Logger, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info("fake works host listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down fake works hosts")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("shutdown failed", "addr", srv.Addr, "error", err)
			}
		}
		return nil
	})

	return g.Wait()
}
