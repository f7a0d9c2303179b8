// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a mock whose expectations are asserted at cleanup.
func NewMockWorkflow(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWorkflow {
	mocked := &MockWorkflow{}
	mocked.Test(t)
	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

func (_m *MockWorkflow) Format(ctx context.Context, args domain.FormatArgs) error {
	return _m.Called(ctx, args).Error(0)
}

func (_m *MockWorkflow) ListRules(ctx context.Context) error {
	return _m.Called(ctx).Error(0)
}

var _ domain.Workflow = (*MockWorkflow)(nil)
