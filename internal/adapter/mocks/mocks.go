// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"

	"codefmt.dev/pkg/codefmt/internal/adapter"
	m "codefmt.dev/pkg/codefmt/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockSourceFSAdapter is a mock of adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// NewMockSourceFSAdapter creates a mock whose expectations are asserted at cleanup.
func NewMockSourceFSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSourceFSAdapter {
	mocked := &MockSourceFSAdapter{}
	mocked.Test(t)
	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

func (_m *MockSourceFSAdapter) Get(ctx context.Context, patterns []m.Path, filter adapter.SourceFilter) ([]m.Source, error) {
	ret := _m.Called(ctx, patterns, filter)

	sources, _ := ret.Get(0).([]m.Source)

	return sources, ret.Error(1)
}

func (_m *MockSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	ret := _m.Called(ctx, path)

	content, _ := ret.Get(0).([]byte)

	return content, ret.Error(1)
}

func (_m *MockSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte) error {
	return _m.Called(ctx, path, content).Error(0)
}

func (_m *MockSourceFSAdapter) Hash(content []byte) (string, error) {
	ret := _m.Called(content)
	return ret.String(0), ret.Error(1)
}

// MockParser is a mock of adapter.Parser.
type MockParser struct {
	mock.Mock
}

// NewMockParser creates a mock whose expectations are asserted at cleanup.
func NewMockParser(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockParser {
	mocked := &MockParser{}
	mocked.Test(t)
	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

func (_m *MockParser) Parse(ctx context.Context, source m.Source, content []byte) (*m.Document, error) {
	ret := _m.Called(ctx, source, content)

	doc, _ := ret.Get(0).(*m.Document)

	return doc, ret.Error(1)
}

func (_m *MockParser) Supports(grammar m.Grammar) bool {
	return _m.Called(grammar).Bool(0)
}

// MockCacheStore is a mock of adapter.CacheStore.
type MockCacheStore struct {
	mock.Mock
}

// NewMockCacheStore creates a mock whose expectations are asserted at cleanup.
func NewMockCacheStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCacheStore {
	mocked := &MockCacheStore{}
	mocked.Test(t)
	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

func (_m *MockCacheStore) Load(ctx context.Context, dir m.Path, fingerprint string) (*adapter.Cache, error) {
	ret := _m.Called(ctx, dir, fingerprint)

	cache, _ := ret.Get(0).(*adapter.Cache)

	return cache, ret.Error(1)
}

func (_m *MockCacheStore) Save(ctx context.Context, dir m.Path, cache *adapter.Cache) error {
	return _m.Called(ctx, dir, cache).Error(0)
}

// MockReportStore is a mock of adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a mock whose expectations are asserted at cleanup.
func NewMockReportStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReportStore {
	mocked := &MockReportStore{}
	mocked.Test(t)
	t.Cleanup(func() { mocked.AssertExpectations(t) })

	return mocked
}

func (_m *MockReportStore) SaveReport(ctx context.Context, path m.Path, report m.RunReport) error {
	return _m.Called(ctx, path, report).Error(0)
}

func (_m *MockReportStore) LoadReport(ctx context.Context, path m.Path) (m.RunReport, error) {
	ret := _m.Called(ctx, path)

	report, _ := ret.Get(0).(m.RunReport)

	return report, ret.Error(1)
}

var (
	_ adapter.SourceFSAdapter = (*MockSourceFSAdapter)(nil)
	_ adapter.Parser          = (*MockParser)(nil)
	_ adapter.CacheStore      = (*MockCacheStore)(nil)
	_ adapter.ReportStore     = (*MockReportStore)(nil)
)
