package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/domain/events"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

// DeleteThreadHandler handles thread deletion
type DeleteThreadHandler struct {
	mutationBase
}

// NewDeleteThreadHandler creates a new delete thread handler
func NewDeleteThreadHandler(
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *DeleteThreadHandler {
	return &DeleteThreadHandler{newMutationBase(threads, publisher, metrics, logger)}
}

// Handle deletes the thread. A service answer of deleted=false is reported
// as Success=false, not as an error.
func (h *DeleteThreadHandler) Handle(ctx context.Context, cmd commands.DeleteThreadCommand) (*commands.DeleteResult, error) {
	status, err := h.threads.Delete(ctx, cmd.ThreadID)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("Deleted thread",
		zap.String("thread_id", cmd.ThreadID),
		zap.Bool("deleted", status.Deleted),
	)

	if status.Deleted {
		h.completed(ctx, "delete", events.NewThreadDeleted(cmd.ThreadID, time.Now()))
	}
	return &commands.DeleteResult{Success: status.Deleted}, nil
}
