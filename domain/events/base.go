package events

import (
	"time"

	"github.com/google/uuid"
)

// SourceThreads is the event source name used when publishing.
const SourceThreads = "azurechat.threads"

// Thread event types
const (
	TypeThreadCreated      = "thread.created"
	TypeThreadBookmarked   = "thread.bookmarked"
	TypeThreadUnbookmarked = "thread.unbookmarked"
	TypeThreadRenamed      = "thread.renamed"
	TypeThreadDeleted      = "thread.deleted"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(threadID, eventType string, ts time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: threadID,
		EventType:   eventType,
		Timestamp:   ts,
		Version:     1,
	}
}

// ThreadCreated is raised when a thread is created on the agent service
type ThreadCreated struct {
	BaseEvent
	UserID string `json:"user_id,omitempty"`
}

// NewThreadCreated creates a ThreadCreated event
func NewThreadCreated(threadID, userID string, ts time.Time) ThreadCreated {
	return ThreadCreated{
		BaseEvent: newBase(threadID, TypeThreadCreated, ts),
		UserID:    userID,
	}
}

// ThreadBookmarkToggled is raised after the bookmark flag changes
type ThreadBookmarkToggled struct {
	BaseEvent
	Bookmarked bool `json:"bookmarked"`
}

// NewThreadBookmarkToggled creates a bookmark event; the type depends on the new state
func NewThreadBookmarkToggled(threadID string, bookmarked bool, ts time.Time) ThreadBookmarkToggled {
	eventType := TypeThreadUnbookmarked
	if bookmarked {
		eventType = TypeThreadBookmarked
	}
	return ThreadBookmarkToggled{
		BaseEvent:  newBase(threadID, eventType, ts),
		Bookmarked: bookmarked,
	}
}

// ThreadRenamed is raised when a thread title changes
type ThreadRenamed struct {
	BaseEvent
	Title string `json:"title"`
}

// NewThreadRenamed creates a ThreadRenamed event
func NewThreadRenamed(threadID, title string, ts time.Time) ThreadRenamed {
	return ThreadRenamed{
		BaseEvent: newBase(threadID, TypeThreadRenamed, ts),
		Title:     title,
	}
}

// ThreadDeleted is raised when the agent service confirms a delete
type ThreadDeleted struct {
	BaseEvent
}

// NewThreadDeleted creates a ThreadDeleted event
func NewThreadDeleted(threadID string, ts time.Time) ThreadDeleted {
	return ThreadDeleted{BaseEvent: newBase(threadID, TypeThreadDeleted, ts)}
}
