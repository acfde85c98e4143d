package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/domain/events"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// CreateThreadHandler handles thread creation
type CreateThreadHandler struct {
	mutationBase
}

// NewCreateThreadHandler creates a new create thread handler
func NewCreateThreadHandler(
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CreateThreadHandler {
	return &CreateThreadHandler{newMutationBase(threads, publisher, metrics, logger)}
}

// Handle creates an empty thread, tagged with the caller when known
func (h *CreateThreadHandler) Handle(ctx context.Context, cmd commands.CreateThreadCommand) (*thread.Thread, error) {
	var metadata thread.Metadata
	if cmd.UserID != "" {
		metadata = thread.Metadata{thread.KeyUserID: cmd.UserID}
	}

	created, err := h.threads.Create(ctx, metadata)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("Created thread", zap.String("thread_id", created.ID))

	h.completed(ctx, "create", events.NewThreadCreated(created.ID, cmd.UserID, time.Now()))
	return created, nil
}
