package middleware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that logs command processing time.
func Logging(command string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, args string) error {
			start := time.Now()
			err := next(ctx, args)
			slog.Debug("command processed",
				"command", command,
				"duration", time.Since(start),
				"error", err,
			)
			return err
		}
	}
}
