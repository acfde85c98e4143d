// Package thread models the agent service's thread resource as this
// application sees it. The remote service owns threads; the only fields with
// local meaning live in the metadata map.
package thread

import (
	"encoding/json"
	"strings"

	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
)

const maxIDLength = 128

// Thread is a conversation thread owned by the agent service.
type Thread struct {
	ID            string          `json:"id"`
	Object        string          `json:"object,omitempty"`
	CreatedAt     int64           `json:"created_at"`
	Metadata      Metadata        `json:"metadata"`
	ToolResources json.RawMessage `json:"tool_resources,omitempty"`
}

// DeletionStatus is returned by the agent service after a delete.
type DeletionStatus struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Order is the sort direction for listing threads by creation time.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ListOptions controls a page request against the agent service.
type ListOptions struct {
	Limit  int
	Order  Order
	After  string
	Before string
}

// Page is one page of a thread listing.
type Page struct {
	Data    []Thread `json:"data"`
	FirstID string   `json:"first_id"`
	LastID  string   `json:"last_id"`
	HasMore bool     `json:"has_more"`
}

// ValidateID rejects ids that cannot be placed in a request path.
func ValidateID(id string) error {
	switch {
	case id == "":
		return apperrors.NewValidationError("thread id is required")
	case len(id) > maxIDLength:
		return apperrors.NewValidationError("thread id is too long")
	case strings.ContainsAny(id, "/?#% \t\r\n"):
		return apperrors.NewValidationError("thread id contains invalid characters")
	}
	return nil
}

// IsBookmarked reports whether t carries the bookmark flag.
func IsBookmarked(t *Thread) bool {
	if t == nil {
		return false
	}
	return t.Metadata.Get(KeyBookmarked) == "true"
}

// Title returns the user-assigned title, if any.
func Title(t *Thread) string {
	if t == nil {
		return ""
	}
	return t.Metadata.Get(KeyTitle)
}

// OwnedBy reports whether t was created for userID.
func OwnedBy(t *Thread, userID string) bool {
	if t == nil {
		return false
	}
	return t.Metadata.Get(KeyUserID) == userID
}

// ToggledBookmarkMetadata returns the metadata t should be updated with to
// flip its bookmark. Other keys are carried over. Unbookmarking writes
// "false" rather than dropping the key: the agent service keeps keys that are
// simply left out of an update.
func ToggledBookmarkMetadata(t *Thread) (Metadata, error) {
	if t == nil {
		return nil, apperrors.NewValidationError("thread is required")
	}
	value := "true"
	if IsBookmarked(t) {
		value = "false"
	}
	return t.Metadata.With(KeyBookmarked, value)
}

// RenamedMetadata returns t's metadata with the title replaced.
func RenamedMetadata(t *Thread, title string) (Metadata, error) {
	if t == nil {
		return nil, apperrors.NewValidationError("thread is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	return t.Metadata.With(KeyTitle, title)
}

// Filter selects threads from a listing. Zero value matches everything.
type Filter struct {
	Bookmarked *bool
	UserID     string
}

// Match reports whether t passes the filter.
func (f Filter) Match(t *Thread) bool {
	if f.Bookmarked != nil && IsBookmarked(t) != *f.Bookmarked {
		return false
	}
	if f.UserID != "" && !OwnedBy(t, f.UserID) {
		return false
	}
	return true
}

// Apply returns the threads that pass the filter, preserving order.
func (f Filter) Apply(threads []Thread) []Thread {
	if f.Bookmarked == nil && f.UserID == "" {
		return threads
	}
	out := make([]Thread, 0, len(threads))
	for i := range threads {
		if f.Match(&threads[i]) {
			out = append(out, threads[i])
		}
	}
	return out
}
