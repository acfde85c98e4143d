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

// ToggleBookmarkHandler flips a thread's bookmark flag
type ToggleBookmarkHandler struct {
	mutationBase
}

// NewToggleBookmarkHandler creates a new toggle bookmark handler
func NewToggleBookmarkHandler(
	threads ports.ThreadService,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ToggleBookmarkHandler {
	return &ToggleBookmarkHandler{newMutationBase(threads, publisher, metrics, logger)}
}

// Handle reads the thread, flips isBookmarked and writes the metadata back.
// The returned thread is the agent service's view after the update.
func (h *ToggleBookmarkHandler) Handle(ctx context.Context, cmd commands.ToggleBookmarkCommand) (*thread.Thread, error) {
	current, err := h.threads.Get(ctx, cmd.ThreadID)
	if err != nil {
		return nil, err
	}

	metadata, err := thread.ToggledBookmarkMetadata(current)
	if err != nil {
		return nil, err
	}

	updated, err := h.threads.Update(ctx, cmd.ThreadID, metadata)
	if err != nil {
		return nil, err
	}

	bookmarked := thread.IsBookmarked(updated)
	h.logger.Debug("Toggled bookmark",
		zap.String("thread_id", updated.ID),
		zap.Bool("bookmarked", bookmarked),
	)

	h.completed(ctx, "bookmark", events.NewThreadBookmarkToggled(updated.ID, bookmarked, time.Now()))
	return updated, nil
}
