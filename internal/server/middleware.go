package server

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger returns a Huma middleware that tags each operation with a
// request ID and logs it once it completes.
func RequestLogger(logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		id := ctx.Header(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.SetHeader(RequestIDHeader, id)

		next(ctx)

		logger.Info("request",
			"method", ctx.Method(),
			"path", ctx.URL().Path,
			"operation", ctx.Operation().OperationID,
			"status", ctx.Status(),
			"duration", time.Since(start),
			"requestId", id,
		)
	}
}
