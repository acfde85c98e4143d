// Package logpub is the event publisher used when no event bus is
// configured. Events are written to the log and dropped.
package logpub

import (
	"context"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/domain/events"
)

// Publisher logs events at debug level
type Publisher struct {
	logger *zap.Logger
}

// New creates a logging publisher
func New(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Publish implements ports.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Thread event",
		zap.String("eventType", event.GetEventType()),
		zap.String("threadId", event.GetAggregateID()),
		zap.String("eventId", event.GetEventID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}
