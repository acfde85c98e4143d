// Package mocks provides testify mocks for the application ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/olafwrieden/azurechat-v3/application/ports"
	"github.com/olafwrieden/azurechat-v3/domain/events"
	"github.com/olafwrieden/azurechat-v3/domain/thread"
)

var (
	_ ports.ThreadService  = (*MockThreadService)(nil)
	_ ports.EventPublisher = (*MockEventPublisher)(nil)
)

type MockThreadService struct {
	mock.Mock
}

func (m *MockThreadService) Create(ctx context.Context, metadata thread.Metadata) (*thread.Thread, error) {
	args := m.Called(ctx, metadata)
	if args.Get(0) != nil {
		return args.Get(0).(*thread.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) List(ctx context.Context, opts thread.ListOptions) (*thread.Page, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		return args.Get(0).(*thread.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) ListAll(ctx context.Context, opts thread.ListOptions) ([]thread.Thread, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		return args.Get(0).([]thread.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) Get(ctx context.Context, id string) (*thread.Thread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*thread.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) Update(ctx context.Context, id string, metadata thread.Metadata) (*thread.Thread, error) {
	args := m.Called(ctx, id, metadata)
	if args.Get(0) != nil {
		return args.Get(0).(*thread.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockThreadService) Delete(ctx context.Context, id string) (*thread.DeletionStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*thread.DeletionStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
