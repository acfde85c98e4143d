package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olafwrieden/azurechat-v3/application/commands"
	"github.com/olafwrieden/azurechat-v3/application/ports/mocks"
	"github.com/olafwrieden/azurechat-v3/domain/events"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
	apperrors "github.com/olafwrieden/azurechat-v3/pkg/errors"
	"github.com/olafwrieden/azurechat-v3/pkg/observability"
)

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e events.DomainEvent) bool {
		return e.GetEventType() == eventType
	})
}

func TestCreateThreadHandler_Handle_WithUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	threads := new(mocks.MockThreadService)
	publisher := new(mocks.MockEventPublisher)

	created := &thread.Thread{ID: "thread_1", Metadata: thread.Metadata{thread.KeyUserID: "user123"}}
	threads.On("Create", ctx, thread.Metadata{thread.KeyUserID: "user123"}).Return(created, nil)
	publisher.On("Publish", ctx, eventOfType(events.TypeThreadCreated)).Return(nil)

	handler := NewCreateThreadHandler(threads, publisher, observability.NewCollector("test"), zap.NewNop())

	// Act
	result, err := handler.Handle(ctx, commands.CreateThreadCommand{UserID: "user123"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "thread_1", result.ID)
	threads.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateThreadHandler_Handle_WithoutUser(t *testing.T) {
	ctx := context.Background()
	threads := new(mocks.MockThreadService)
	publisher := new(mocks.MockEventPublisher)

	threads.On("Create", ctx, thread.Metadata(nil)).Return(&thread.Thread{ID: "thread_2"}, nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	handler := NewCreateThreadHandler(threads, publisher, nil, zap.NewNop())

	result, err := handler.Handle(ctx, commands.CreateThreadCommand{})

	require.NoError(t, err)
	assert.Equal(t, "thread_2", result.ID)
	threads.AssertExpectations(t)
}

func TestCreateThreadHandler_Handle_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	threads := new(mocks.MockThreadService)
	publisher := new(mocks.MockEventPublisher)

	threads.On("Create", ctx, mock.Anything).Return(&thread.Thread{ID: "thread_3"}, nil)
	publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus down"))

	handler := NewCreateThreadHandler(threads, publisher, nil, zap.NewNop())

	result, err := handler.Handle(ctx, commands.CreateThreadCommand{})

	require.NoError(t, err)
	assert.Equal(t, "thread_3", result.ID)
}

func TestToggleBookmarkHandler_Handle(t *testing.T) {
	tests := []struct {
		name      string
		current   thread.Metadata
		want      thread.Metadata
		eventType string
	}{
		{
			name:      "bookmarks unmarked thread and keeps other keys",
			current:   thread.Metadata{"title": "Trip"},
			want:      thread.Metadata{"title": "Trip", thread.KeyBookmarked: "true"},
			eventType: events.TypeThreadBookmarked,
		},
		{
			name:      "unbookmark writes false",
			current:   thread.Metadata{"title": "Trip", thread.KeyBookmarked: "true"},
			want:      thread.Metadata{"title": "Trip", thread.KeyBookmarked: "false"},
			eventType: events.TypeThreadUnbookmarked,
		},
		{
			name:      "unexpected value counts as unbookmarked",
			current:   thread.Metadata{thread.KeyBookmarked: "yes"},
			want:      thread.Metadata{thread.KeyBookmarked: "true"},
			eventType: events.TypeThreadBookmarked,
		},
		{
			name:      "nil metadata",
			current:   nil,
			want:      thread.Metadata{thread.KeyBookmarked: "true"},
			eventType: events.TypeThreadBookmarked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			threads := new(mocks.MockThreadService)
			publisher := new(mocks.MockEventPublisher)

			threads.On("Get", ctx, "thread_1").Return(&thread.Thread{ID: "thread_1", Metadata: tt.current}, nil)
			threads.On("Update", ctx, "thread_1", tt.want).Return(&thread.Thread{ID: "thread_1", Metadata: tt.want}, nil)
			publisher.On("Publish", ctx, eventOfType(tt.eventType)).Return(nil)

			handler := NewToggleBookmarkHandler(threads, publisher, nil, zap.NewNop())

			result, err := handler.Handle(ctx, commands.ToggleBookmarkCommand{ThreadID: "thread_1"})

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Metadata)
			threads.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestToggleBookmarkHandler_Handle_NotFound(t *testing.T) {
	ctx := context.Background()
	threads := new(mocks.MockThreadService)

	threads.On("Get", ctx, "missing").Return(nil, apperrors.NewNotFoundError("thread"))

	handler := NewToggleBookmarkHandler(threads, nil, nil, zap.NewNop())

	_, err := handler.Handle(ctx, commands.ToggleBookmarkCommand{ThreadID: "missing"})

	assert.True(t, apperrors.IsNotFound(err))
	threads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestToggleBookmarkHandler_Handle_FullMetadata(t *testing.T) {
	ctx := context.Background()
	threads := new(mocks.MockThreadService)

	full := thread.Metadata{}
	for i := 0; i < thread.MaxMetadataPairs; i++ {
		full[string(rune('a'+i))] = "v"
	}
	threads.On("Get", ctx, "thread_1").Return(&thread.Thread{ID: "thread_1", Metadata: full}, nil)

	handler := NewToggleBookmarkHandler(threads, nil, nil, zap.NewNop())

	_, err := handler.Handle(ctx, commands.ToggleBookmarkCommand{ThreadID: "thread_1"})

	assert.True(t, apperrors.IsValidation(err))
	threads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenameThreadHandler_Handle(t *testing.T) {
	ctx := context.Background()
	threads := new(mocks.MockThreadService)
	publisher := new(mocks.MockEventPublisher)

	current := &thread.Thread{ID: "thread_1", Metadata: thread.Metadata{thread.KeyBookmarked: "true"}}
	want := thread.Metadata{thread.KeyBookmarked: "true", thread.KeyTitle: "Holiday plans"}
	threads.On("Get", ctx, "thread_1").Return(current, nil)
	threads.On("Update", ctx, "thread_1", want).Return(&thread.Thread{ID: "thread_1", Metadata: want}, nil)
	publisher.On("Publish", ctx, eventOfType(events.TypeThreadRenamed)).Return(nil)

	handler := NewRenameThreadHandler(threads, publisher, nil, zap.NewNop())

	result, err := handler.Handle(ctx, commands.RenameThreadCommand{ThreadID: "thread_1", Title: "  Holiday plans "})

	require.NoError(t, err)
	assert.Equal(t, "Holiday plans", thread.Title(result))
	threads.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDeleteThreadHandler_Handle(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		ctx := context.Background()
		threads := new(mocks.MockThreadService)
		publisher := new(mocks.MockEventPublisher)

		threads.On("Delete", ctx, "thread_1").Return(&thread.DeletionStatus{ID: "thread_1", Deleted: true}, nil)
		publisher.On("Publish", ctx, eventOfType(events.TypeThreadDeleted)).Return(nil)

		handler := NewDeleteThreadHandler(threads, publisher, nil, zap.NewNop())

		result, err := handler.Handle(ctx, commands.DeleteThreadCommand{ThreadID: "thread_1"})

		require.NoError(t, err)
		assert.True(t, result.Success)
		publisher.AssertExpectations(t)
	})

	t.Run("service reports not deleted", func(t *testing.T) {
		ctx := context.Background()
		threads := new(mocks.MockThreadService)
		publisher := new(mocks.MockEventPublisher)

		threads.On("Delete", ctx, "thread_1").Return(&thread.DeletionStatus{ID: "thread_1", Deleted: false}, nil)

		handler := NewDeleteThreadHandler(threads, publisher, nil, zap.NewNop())

		result, err := handler.Handle(ctx, commands.DeleteThreadCommand{ThreadID: "thread_1"})

		require.NoError(t, err)
		assert.False(t, result.Success)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("remote error passes through", func(t *testing.T) {
		ctx := context.Background()
		threads := new(mocks.MockThreadService)

		threads.On("Delete", ctx, "thread_1").Return(nil, apperrors.NewUnavailableError("agents"))

		handler := NewDeleteThreadHandler(threads, nil, nil, zap.NewNop())

		_, err := handler.Handle(ctx, commands.DeleteThreadCommand{ThreadID: "thread_1"})

		assert.True(t, apperrors.IsUnavailable(err))
	})
}
