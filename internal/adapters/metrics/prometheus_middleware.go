package metrics

import (
	"context"
	"time"

	"github.com/abdullahab98/BD-Railway-Ticket-Automation/internal/application/mediator"
)

// PrometheusMiddleware creates a middleware that records command execution metrics.
// Command names come from mediator.RequestName, e.g. "RunBookingCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(mediator.RequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}
