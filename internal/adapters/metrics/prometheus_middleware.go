package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/colonybot-go/internal/application/mediator"
)

// PrometheusMiddleware times every request sent through the mediator and
// counts its successes and failures. A nil collector disables it.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(commandName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

// commandName strips the pointer and package from the request type,
// "*colony.RunTickCommand" becomes "RunTickCommand"
func commandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", request), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
