package service

import (
	"context"

	"portal/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

// NewMockEventPublisher creates a mock that asserts its expectations on cleanup.
func NewMockEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *service.Event) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockEventPublisherExpecter builds typed expectations.
type MockEventPublisherExpecter struct {
	mock *mock.Mock
}

func (m *MockEventPublisher) EXPECT() *MockEventPublisherExpecter {
	return &MockEventPublisherExpecter{mock: &m.Mock}
}

// Publish expects a call with the given arguments.
func (e *MockEventPublisherExpecter) Publish(ctx, event any) *mock.Call {
	return e.mock.On("Publish", ctx, event)
}

// Close expects a call to Close.
func (e *MockEventPublisherExpecter) Close() *mock.Call {
	return e.mock.On("Close")
}

// EventOfType matches a *service.Event by type.
func EventOfType(eventType service.EventType) any {
	return mock.MatchedBy(func(event *service.Event) bool {
		return event != nil && event.Type == eventType
	})
}
