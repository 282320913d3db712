package backend

import (
	"context"
	"sync"

	"github.com/sharkusmanch/wrapped-runner/internal/domain"
)

// MockDispatcher is a mock implementation of domain.Dispatcher for testing.
type MockDispatcher struct {
	DispatchFunc func(ctx context.Context, exportsDir string) (*domain.RunResult, error)

	mu    sync.Mutex
	calls []string
}

// Dispatch records exportsDir and calls DispatchFunc. Without DispatchFunc
// it returns a successful run with empty output.
func (m *MockDispatcher) Dispatch(ctx context.Context, exportsDir string) (*domain.RunResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, exportsDir)
	m.mu.Unlock()

	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, exportsDir)
	}
	result := domain.NewRunResult(domain.Artifact{Kind: domain.ArtifactBinary, Path: "mock"}, nil)
	result.Complete("", 0)
	return result, nil
}

// Calls returns the exports directories passed to Dispatch so far.
func (m *MockDispatcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Ensure MockDispatcher implements domain.Dispatcher.
var _ domain.Dispatcher = (*MockDispatcher)(nil)
