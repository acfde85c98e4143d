package queries

import (
	"github.com/olafwrieden/azurechat-v3/domain/thread"
	"github.com/olafwrieden/azurechat-v3/pkg/utils"
)

// MaxListLimit caps how many threads a single listing returns
const MaxListLimit = 1000

// ListThreadsQuery lists threads, optionally filtered. Filters are applied
// after fetching, so Limit bounds the fetch rather than the filtered result.
type ListThreadsQuery struct {
	Limit      int    `json:"limit,omitempty" validate:"min=0,max=1000"`
	Order      string `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`
	Bookmarked *bool  `json:"bookmarked,omitempty"`
	UserID     string `json:"userId,omitempty" validate:"maxbytes=512"`
}

// Validate validates the ListThreadsQuery
func (q ListThreadsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListOptions converts the query into remote listing options
func (q ListThreadsQuery) ListOptions() thread.ListOptions {
	return thread.ListOptions{
		Limit: q.Limit,
		Order: thread.Order(q.Order),
	}
}

// Filter returns the local filter for the query
func (q ListThreadsQuery) Filter() thread.Filter {
	return thread.Filter{
		Bookmarked: q.Bookmarked,
		UserID:     q.UserID,
	}
}

// GetThreadQuery fetches a single thread
type GetThreadQuery struct {
	ThreadID string `json:"id" validate:"required,threadid"`
}

// Validate validates the GetThreadQuery
func (q GetThreadQuery) Validate() error {
	return utils.ValidateStruct(q)
}
