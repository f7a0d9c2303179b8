// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/controller"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockUI is a mock of controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a mock whose expectations are asserted at cleanup.
func NewMockUI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUI {
	mocked := &MockUI{}
	mocked.Test(t)
	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

func (_m *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	return _m.Called(ctx, options).Error(0)
}

func (_m *MockUI) Close(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *MockUI) Wait(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *MockUI) DisplayRules(ctx context.Context, rules []controller.RuleRow) error {
	return _m.Called(ctx, rules).Error(0)
}

func (_m *MockUI) DisplayDiff(ctx context.Context, path m.Path, before, after string) error {
	return _m.Called(ctx, path, before, after).Error(0)
}

func (_m *MockUI) DisplayReport(ctx context.Context, report m.RunReport) error {
	return _m.Called(ctx, report).Error(0)
}

var _ controller.UI = (*MockUI)(nil)
