package mediator

import (
	"context"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/logging"
)

// LoggingMiddleware logs the start and outcome of every request with its duration
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		name := RequestName(request)
		logger := logging.FromContext(ctx).With("request", name)
		logger.Debug("handling request")

		start := time.Now()
		response, err := next(ctx, request)
		elapsed := time.Since(start)

		if err != nil {
			logger.Error("request failed", "duration", elapsed, "error", err)
			return response, err
		}
		logger.Info("request completed", "duration", elapsed)
		return response, nil
	}
}
