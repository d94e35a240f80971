// Package notification is the fire-and-forget event boundary. Services note
// domain events here; delivery (email, push) is a downstream concern.
package notification

import (
	"context"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/observability"
	"go.uber.org/zap"
)

type Event struct {
	Name    string
	UserID  *common.UUID
	Payload map[string]string
}

type Sink interface {
	Notify(ctx context.Context, event Event) error
}

type logSink struct {
	logger observability.Logger
}

// NewLogSink records events to the structured log.
func NewLogSink(logger observability.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) Notify(_ context.Context, event Event) error {
	fields := []observability.Field{zap.String("event", event.Name)}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.String()))
	}
	for key, value := range event.Payload {
		fields = append(fields, zap.String(key, value))
	}
	s.logger.Info("event", fields...)
	return nil
}

// NopSink discards every event. Used in tests.
type NopSink struct{}

func (NopSink) Notify(context.Context, Event) error { return nil }
