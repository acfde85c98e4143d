package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/application/queries"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
)

// GetThreadHandler handles single thread lookups
type GetThreadHandler struct {
	threads ports.ThreadService
	logger  *zap.Logger
}

// NewGetThreadHandler creates a new get thread handler
func NewGetThreadHandler(threads ports.ThreadService, logger *zap.Logger) *GetThreadHandler {
	return &GetThreadHandler{
		threads: threads,
		logger:  logger,
	}
}

// Handle executes the get thread query
func (h *GetThreadHandler) Handle(ctx context.Context, query queries.GetThreadQuery) (*thread.Thread, error) {
	t, err := h.threads.Get(ctx, query.ThreadID)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("Retrieved thread", zap.String("thread_id", t.ID))
	return t, nil
}
