package ports

import (
	"context"

	"github.com/olafwrieden/azurechat-v3/domain/events"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
)

// ThreadService is the agent service's thread API. The service is the source
// of truth; implementations forward calls and map errors.
type ThreadService interface {
	// Create creates an empty thread carrying the given metadata (may be nil)
	Create(ctx context.Context, metadata thread.Metadata) (*thread.Thread, error)

	// List fetches a single page
	List(ctx context.Context, opts thread.ListOptions) (*thread.Page, error)

	// ListAll follows pagination until exhausted or opts.Limit threads are collected
	ListAll(ctx context.Context, opts thread.ListOptions) ([]thread.Thread, error)

	// Get retrieves a thread by id
	Get(ctx context.Context, id string) (*thread.Thread, error)

	// Update replaces the thread metadata
	Update(ctx context.Context, id string, metadata thread.Metadata) (*thread.Thread, error)

	// Delete removes a thread
	Delete(ctx context.Context, id string) (*thread.DeletionStatus, error)
}

// EventPublisher publishes thread lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// Cache is the query result cache shared by the buses
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Generation(ctx context.Context) uint64
	SetIfGeneration(ctx context.Context, key string, value interface{}, ttl int, gen uint64) (bool, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
