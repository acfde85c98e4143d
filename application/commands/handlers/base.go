package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/domain/events"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// mutationBase carries what every thread mutation needs
type mutationBase struct {
	threads   ports.ThreadService
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

func newMutationBase(
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) mutationBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return mutationBase{
		threads:   threads,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// completed records a successful mutation and publishes its event. Publish
// failures are logged only; the remote change has already happened.
func (b mutationBase) completed(ctx context.Context, operation string, event events.DomainEvent) {
	if b.metrics != nil {
		b.metrics.RecordMutation(operation)
	}
	if b.publisher == nil || event == nil {
		return
	}
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.Warn("Failed to publish thread event",
			zap.String("event_type", event.GetEventType()),
			zap.String("thread_id", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}
