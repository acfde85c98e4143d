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

// RenameThreadHandler sets a thread's title metadata
type RenameThreadHandler struct {
	mutationBase
}

// NewRenameThreadHandler creates a new rename thread handler
func NewRenameThreadHandler(
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *RenameThreadHandler {
	return &RenameThreadHandler{newMutationBase(threads, publisher, metrics, logger)}
}

// Handle executes the rename command
func (h *RenameThreadHandler) Handle(ctx context.Context, cmd commands.RenameThreadCommand) (*thread.Thread, error) {
	current, err := h.threads.Get(ctx, cmd.ThreadID)
	if err != nil {
		return nil, err
	}

	metadata, err := thread.RenamedMetadata(current, cmd.Title)
	if err != nil {
		return nil, err
	}

	updated, err := h.threads.Update(ctx, cmd.ThreadID, metadata)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("Renamed thread", zap.String("thread_id", updated.ID))

	h.completed(ctx, "rename", events.NewThreadRenamed(updated.ID, thread.Title(updated), time.Now()))
	return updated, nil
}
