package httpkit

import (
	"context"

	"works_uploader/platform/logger"
)

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, logger.RequestIDKey, id)
}

// RequestIDFromContext returns the ID assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
