package task

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusChange records a single UpdateTaskStatus call.
type statusChange struct {
	taskID   uuid.UUID
	status   TaskStatus
	errorMsg string
}

// memoryTaskStore is an in-memory TaskStore for runner tests.
type memoryTaskStore struct {
	mu         sync.Mutex
	saved      []Task
	changes    []statusChange
	pending    []Task
	processing []Task
	saveErr    error
}

func (s *memoryTaskStore) SaveTask(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, t)
	return nil
}

func (s *memoryTaskStore) UpdateTaskStatus(_ context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, statusChange{taskID, status, errorMsg})
	return nil
}

func (s *memoryTaskStore) GetPendingTasks(_ context.Context) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, nil
}

func (s *memoryTaskStore) GetProcessingTasks(_ context.Context, _ time.Duration) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing, nil
}

func (s *memoryTaskStore) WithTx(_ *sql.Tx) TaskStore { return s }

func (s *memoryTaskStore) changesFor(taskID uuid.UUID) []statusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []statusChange
	for _, c := range s.changes {
		if c.taskID == taskID {
			out = append(out, c)
		}
	}
	return out
}

// testTask is a controllable Task implementation.
type testTask struct {
	id      uuid.UUID
	execErr error
	done    chan struct{}
}

func newTestTask(execErr error) *testTask {
	return &testTask{id: uuid.New(), execErr: execErr, done: make(chan struct{})}
}

func (t *testTask) ID() uuid.UUID     { return t.id }
func (t *testTask) Type() string      { return "test_task" }
func (t *testTask) Payload() []byte   { return []byte(`{}`) }
func (t *testTask) Status() TaskStatus { return TaskStatusPending }

func (t *testTask) Execute(_ context.Context) error {
	defer close(t.done)
	return t.execErr
}

func (t *testTask) waitDone(tb testing.TB) {
	tb.Helper()
	select {
	case <-t.done:
	case <-time.After(2 * time.Second):
		tb.Fatal("task was not executed in time")
	}
}

func testRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:            1,
		QueueSize:              4,
		StuckTaskAge:           time.Minute,
		StuckTaskCheckInterval: time.Hour,
	}
}

func TestRunner_SubmitPersistsBeforeQueueing(t *testing.T) {
	store := &memoryTaskStore{}
	runner := NewRunner(store, testRunnerConfig(), nil)

	tk := newTestTask(nil)
	require.NoError(t, runner.Submit(context.Background(), tk))

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.saved, 1)
	assert.Equal(t, tk.ID(), store.saved[0].ID())
}

func TestRunner_SubmitSaveFailure(t *testing.T) {
	store := &memoryTaskStore{saveErr: errors.New("db down")}
	runner := NewRunner(store, testRunnerConfig(), nil)

	err := runner.Submit(context.Background(), newTestTask(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save task")
}

func TestRunner_SubmitQueueFull(t *testing.T) {
	store := &memoryTaskStore{}
	cfg := testRunnerConfig()
	cfg.QueueSize = 1
	// Workers never started, so the queue fills up.
	runner := NewRunner(store, cfg, nil)

	require.NoError(t, runner.Submit(context.Background(), newTestTask(nil)))
	err := runner.Submit(context.Background(), newTestTask(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestRunner_ProcessesSubmittedTask(t *testing.T) {
	store := &memoryTaskStore{}
	runner := NewRunner(store, testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	tk := newTestTask(nil)
	require.NoError(t, runner.Submit(context.Background(), tk))
	tk.waitDone(t)

	// Give the worker a moment to record the terminal status.
	require.Eventually(t, func() bool {
		return len(store.changesFor(tk.ID())) == 2
	}, 2*time.Second, 10*time.Millisecond)

	changes := store.changesFor(tk.ID())
	assert.Equal(t, TaskStatusProcessing, changes[0].status)
	assert.Equal(t, TaskStatusCompleted, changes[1].status)
	assert.Empty(t, changes[1].errorMsg)
}

func TestRunner_RecordsFailedTask(t *testing.T) {
	store := &memoryTaskStore{}
	runner := NewRunner(store, testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	tk := newTestTask(errors.New("analysis exploded"))
	require.NoError(t, runner.Submit(context.Background(), tk))
	tk.waitDone(t)

	require.Eventually(t, func() bool {
		return len(store.changesFor(tk.ID())) == 2
	}, 2*time.Second, 10*time.Millisecond)

	changes := store.changesFor(tk.ID())
	assert.Equal(t, TaskStatusProcessing, changes[0].status)
	assert.Equal(t, TaskStatusFailed, changes[1].status)
	assert.Equal(t, "analysis exploded", changes[1].errorMsg)
}

func TestRunner_RecoversUnfinishedTasks(t *testing.T) {
	pendingTask := newTestTask(nil)
	processingTask := newTestTask(nil)
	store := &memoryTaskStore{
		pending:    []Task{pendingTask},
		processing: []Task{processingTask},
	}

	runner := NewRunner(store, testRunnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	pendingTask.waitDone(t)
	processingTask.waitDone(t)

	// The processing task is reset to pending before being requeued.
	require.Eventually(t, func() bool {
		changes := store.changesFor(processingTask.ID())
		return len(changes) >= 1 && changes[0].status == TaskStatusPending
	}, 2*time.Second, 10*time.Millisecond)

	changes := store.changesFor(processingTask.ID())
	assert.Equal(t, "Reset after recovery", changes[0].errorMsg)
}

func TestRunner_StopWaitsForWorkers(t *testing.T) {
	store := &memoryTaskStore{}
	runner := NewRunner(store, testRunnerConfig(), nil)
	require.NoError(t, runner.Start())

	tk := newTestTask(nil)
	require.NoError(t, runner.Submit(context.Background(), tk))
	tk.waitDone(t)

	runner.Stop()
}
