package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/ghuser/oraclegate/pkg/logger"
)

// backoff retries a handler with doubling delays.
type backoff struct {
	attempts int
	base     time.Duration
}

var defaultBackoff = backoff{attempts: 3, base: time.Second}

func (b backoff) run(ctx context.Context, log logger.Logger, fn func(context.Context) error) error {
	delay := b.base
	var err error
	for attempt := 1; attempt <= b.attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == b.attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt, "next_delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", b.attempts, err)
}

// watermillLogger routes watermill's internal logs into logger.Logger.
// Watermill's trace level maps to debug.
type watermillLogger struct{ log logger.Logger }

func newWatermillLogger(log logger.Logger) *watermillLogger { return &watermillLogger{log: log} }

func (a *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(logArgs(fields), "error", err)...)
}
func (a *watermillLogger) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, logArgs(fields)...)
}
func (a *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, logArgs(fields)...)
}
func (a *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, logArgs(fields)...)
}
func (a *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: a.log.With(logArgs(fields)...)}
}

func logArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
