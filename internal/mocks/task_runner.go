package mocks

import (
	"context"
	"sync"

	"github.com/lingualabs/lingua-api/internal/service"
	"github.com/lingualabs/lingua-api/internal/task"
)

// MockTaskRunner implements service.TaskRunner for testing.
type MockTaskRunner struct {
	SubmitFn func(ctx context.Context, t task.Task) error

	// Err is returned when SubmitFn is not set
	Err error

	mu        sync.Mutex
	Submitted []task.Task
}

var _ service.TaskRunner = (*MockTaskRunner)(nil)

func (m *MockTaskRunner) Submit(ctx context.Context, t task.Task) error {
	m.mu.Lock()
	m.Submitted = append(m.Submitted, t)
	m.mu.Unlock()

	if m.SubmitFn != nil {
		return m.SubmitFn(ctx, t)
	}
	return m.Err
}

// SubmittedCount returns how many tasks were submitted.
func (m *MockTaskRunner) SubmittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Submitted)
}
