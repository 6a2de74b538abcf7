// Package service holds testify mocks for the domain service interfaces.
package service

import (
	"context"

	"portal/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockDesktopNotifier is a mock implementation of service.DesktopNotifier.
type MockDesktopNotifier struct {
	mock.Mock
}

// NewMockDesktopNotifier creates a mock that asserts its expectations on cleanup.
func NewMockDesktopNotifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDesktopNotifier {
	m := &MockDesktopNotifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDesktopNotifier) Deliver(ctx context.Context, owner string, notification *entity.Notification) error {
	args := m.Called(ctx, owner, notification)

	return args.Error(0)
}

// MockDesktopNotifierExpecter builds typed expectations.
type MockDesktopNotifierExpecter struct {
	mock *mock.Mock
}

func (m *MockDesktopNotifier) EXPECT() *MockDesktopNotifierExpecter {
	return &MockDesktopNotifierExpecter{mock: &m.Mock}
}

// Deliver expects a call with the given arguments.
func (e *MockDesktopNotifierExpecter) Deliver(ctx, owner, notification any) *mock.Call {
	return e.mock.On("Deliver", ctx, owner, notification)
}
