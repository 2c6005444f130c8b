// Package mocks provides testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"traitmut.dev/pkg/traitmut/internal/domain"
)

// MockWorkflow is a mock implementation of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// Mutate provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Mutate(ctx context.Context, args domain.MutateArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Metrics provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Metrics(ctx context.Context, args domain.MetricsArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Inspect provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Inspect(ctx context.Context, args domain.InspectArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Graph provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Graph(ctx context.Context, args domain.GraphArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// Batch provides a mock function with given fields: ctx, args.
func (_m *MockWorkflow) Batch(ctx context.Context, args domain.BatchArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// NewMockWorkflow creates a new instance of MockWorkflow. It also registers
// a cleanup function to assert the mocks expectations.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	m := &MockWorkflow{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ domain.Workflow = (*MockWorkflow)(nil)
