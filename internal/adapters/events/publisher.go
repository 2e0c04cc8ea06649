package events

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/treb-dao/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-dao/internal/domain"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

// LogPublisher writes each event to the debug log
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) {
	p.log.DebugContext(ctx, "governance event", "event", event.EventName(), "detail", event.String())
}

// Fanout delivers every event to each publisher in order
type Fanout []usecase.EventPublisher

func (f Fanout) Publish(ctx context.Context, event domain.Event) {
	for _, p := range f {
		p.Publish(ctx, event)
	}
}

// NewPublisher combines the log and metrics publishers
func NewPublisher(log *slog.Logger, m *metrics.Metrics) usecase.EventPublisher {
	return Fanout{NewLogPublisher(log), m}
}
