package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
)

// ListThreadsHandler handles thread listing
type ListThreadsHandler struct {
	threads ports.ThreadService
	logger  *zap.Logger
}

// NewListThreadsHandler creates a new list threads handler
func NewListThreadsHandler(threads ports.ThreadService, logger *zap.Logger) *ListThreadsHandler {
	return &ListThreadsHandler{
		threads: threads,
		logger:  logger,
	}
}

// Handle walks the remote listing and applies the query's filters
func (h *ListThreadsHandler) Handle(ctx context.Context, query queries.ListThreadsQuery) ([]thread.Thread, error) {
	all, err := h.threads.ListAll(ctx, query.ListOptions())
	if err != nil {
		return nil, err
	}

	for i := range all {
		h.logger.Debug("Thread ID", zap.String("thread_id", all[i].ID))
	}

	result := query.Filter().Apply(all)
	if result == nil {
		result = []thread.Thread{}
	}
	return result, nil
}
