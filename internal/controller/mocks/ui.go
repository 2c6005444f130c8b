// Package mocks provides testify mocks of the controller interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	m "traitmut.dev/pkg/traitmut/internal/model"
)

// MockUI is a mock implementation of controller.UI.
type MockUI struct {
	mock.Mock
}

// DisplayOutcome provides a mock function with given fields: ctx, result, emitChoice.
func (_m *MockUI) DisplayOutcome(ctx context.Context, result m.MutationResult, emitChoice bool) error {
	ret := _m.Called(ctx, result, emitChoice)
	return ret.Error(0)
}

// DisplaySource provides a mock function with given fields: ctx, content.
func (_m *MockUI) DisplaySource(ctx context.Context, content []byte) error {
	ret := _m.Called(ctx, content)
	return ret.Error(0)
}

// DisplayMetrics provides a mock function with given fields: ctx, metrics.
func (_m *MockUI) DisplayMetrics(ctx context.Context, metrics m.Metrics) error {
	ret := _m.Called(ctx, metrics)
	return ret.Error(0)
}

// DisplayGraph provides a mock function with given fields: ctx, graph.
func (_m *MockUI) DisplayGraph(ctx context.Context, graph m.DependencyGraph) error {
	ret := _m.Called(ctx, graph)
	return ret.Error(0)
}

// DisplaySites provides a mock function with given fields: ctx, sites, format.
func (_m *MockUI) DisplaySites(ctx context.Context, sites []m.SiteDebug, format string) error {
	ret := _m.Called(ctx, sites, format)
	return ret.Error(0)
}

// DisplayDiff provides a mock function with given fields: ctx, name, before, after.
func (_m *MockUI) DisplayDiff(ctx context.Context, name string, before, after []byte) error {
	ret := _m.Called(ctx, name, before, after)
	return ret.Error(0)
}

// DisplayBatchSummary provides a mock function with given fields: ctx, report, reportPath.
func (_m *MockUI) DisplayBatchSummary(ctx context.Context, report m.BatchReport, reportPath m.Path) error {
	ret := _m.Called(ctx, report, reportPath)
	return ret.Error(0)
}

// NewMockUI creates a new instance of MockUI. It also registers a cleanup
// function to assert the mocks expectations.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mu := &MockUI{}
	mu.Mock.Test(t)

	t.Cleanup(func() { mu.AssertExpectations(t) })

	return mu
}
