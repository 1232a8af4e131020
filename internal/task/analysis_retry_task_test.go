package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockReanalyzer records calls to ReanalyzeConversation.
type mockReanalyzer struct {
	err    error
	called []uuid.UUID
}

func (m *mockReanalyzer) ReanalyzeConversation(_ context.Context, conversationID uuid.UUID) error {
	m.called = append(m.called, conversationID)
	return m.err
}

func TestNewAnalysisRetryTask(t *testing.T) {
	convID := uuid.New()

	tk, err := NewAnalysisRetryTask(convID, &mockReanalyzer{}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tk.ID())
	assert.Equal(t, TaskTypeAnalysisRetry, tk.Type())
	assert.Equal(t, TaskStatusPending, tk.Status())
	assert.JSONEq(t, `{"conversation_id":"`+convID.String()+`"}`, string(tk.Payload()))
}

func TestNewAnalysisRetryTask_Validation(t *testing.T) {
	_, err := NewAnalysisRetryTask(uuid.Nil, &mockReanalyzer{}, nil)
	assert.Error(t, err)

	_, err = NewAnalysisRetryTask(uuid.New(), nil, nil)
	assert.Error(t, err)
}

func TestAnalysisRetryTask_Execute(t *testing.T) {
	convID := uuid.New()
	reanalyzer := &mockReanalyzer{}

	tk, err := NewAnalysisRetryTask(convID, reanalyzer, nil)
	require.NoError(t, err)

	require.NoError(t, tk.Execute(context.Background()))
	require.Len(t, reanalyzer.called, 1)
	assert.Equal(t, convID, reanalyzer.called[0])
}

func TestAnalysisRetryTask_ExecuteFailure(t *testing.T) {
	reanalyzer := &mockReanalyzer{err: errors.New("model unavailable")}

	tk, err := NewAnalysisRetryTask(uuid.New(), reanalyzer, nil)
	require.NoError(t, err)

	err = tk.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestAnalysisRetryTaskFactory_CreateTask(t *testing.T) {
	convID := uuid.New()
	reanalyzer := &mockReanalyzer{}
	factory := NewAnalysisRetryTaskFactory(reanalyzer, nil)

	original, err := NewAnalysisRetryTask(convID, reanalyzer, nil)
	require.NoError(t, err)

	rebuilt, err := factory.CreateTask(original.ID(), TaskTypeAnalysisRetry, original.Payload(), TaskStatusPending)
	require.NoError(t, err)
	assert.Equal(t, original.ID(), rebuilt.ID())
	assert.Equal(t, TaskTypeAnalysisRetry, rebuilt.Type())
	assert.Equal(t, TaskStatusPending, rebuilt.Status())

	require.NoError(t, rebuilt.Execute(context.Background()))
	require.Len(t, reanalyzer.called, 1)
	assert.Equal(t, convID, reanalyzer.called[0])
}

func TestAnalysisRetryTaskFactory_Rejections(t *testing.T) {
	factory := NewAnalysisRetryTaskFactory(&mockReanalyzer{}, nil)

	_, err := factory.CreateTask(uuid.New(), "unknown_type", []byte(`{}`), TaskStatusPending)
	assert.Error(t, err)

	_, err = factory.CreateTask(uuid.New(), TaskTypeAnalysisRetry, []byte(`not json`), TaskStatusPending)
	assert.Error(t, err)

	_, err = factory.CreateTask(uuid.New(), TaskTypeAnalysisRetry, []byte(`{}`), TaskStatusPending)
	assert.Error(t, err, "payload without a conversation ID is rejected")
}
