package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/banishment/internal/events"
)

// MockEventQueue is a mock implementation of jobs.EventQueue
type MockEventQueue struct {
	mock.Mock
}

func (m *MockEventQueue) Enqueue(e events.Event) error {
	args := m.Called(e)
	return args.Error(0)
}

// MockEventSink is a mock implementation of events.Sink
type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventSink) Close() error {
	args := m.Called()
	return args.Error(0)
}
