package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Reanalyzer re-runs model-backed analysis for a conversation and upgrades
// its stored evaluation.
type Reanalyzer interface {
	ReanalyzeConversation(ctx context.Context, conversationID uuid.UUID) error
}

// analysisRetryPayload is the persisted JSON payload for a retry task.
type analysisRetryPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
}

// AnalysisRetryTask retries model-backed analysis for a conversation whose
// evaluation came from the heuristic fallback.
type AnalysisRetryTask struct {
	id             uuid.UUID
	conversationID uuid.UUID
	payload        []byte
	status         TaskStatus
	reanalyzer     Reanalyzer
	logger         *slog.Logger
}

var _ Task = (*AnalysisRetryTask)(nil)

// NewAnalysisRetryTask creates a retry task for the given conversation.
func NewAnalysisRetryTask(
	conversationID uuid.UUID,
	reanalyzer Reanalyzer,
	logger *slog.Logger,
) (*AnalysisRetryTask, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("conversation ID cannot be nil")
	}
	if reanalyzer == nil {
		return nil, fmt.Errorf("reanalyzer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	payload, err := json.Marshal(analysisRetryPayload{ConversationID: conversationID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	return &AnalysisRetryTask{
		id:             uuid.New(),
		conversationID: conversationID,
		payload:        payload,
		status:         TaskStatusPending,
		reanalyzer:     reanalyzer,
		logger:         logger.With("task_type", TaskTypeAnalysisRetry),
	}, nil
}

// ID returns the task's unique identifier.
func (t *AnalysisRetryTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *AnalysisRetryTask) Type() string {
	return TaskTypeAnalysisRetry
}

// Payload returns the serialized task data.
func (t *AnalysisRetryTask) Payload() []byte {
	return t.payload
}

// Status returns the current task status.
func (t *AnalysisRetryTask) Status() TaskStatus {
	return t.status
}

// Execute re-runs analysis for the conversation.
func (t *AnalysisRetryTask) Execute(ctx context.Context) error {
	t.logger.Info("retrying analysis", "conversation_id", t.conversationID)

	if err := t.reanalyzer.ReanalyzeConversation(ctx, t.conversationID); err != nil {
		return fmt.Errorf("failed to reanalyze conversation %s: %w", t.conversationID, err)
	}

	return nil
}

// AnalysisRetryTaskFactory reconstructs retry tasks loaded from the
// database so they can be re-executed after a restart.
type AnalysisRetryTaskFactory struct {
	reanalyzer Reanalyzer
	logger     *slog.Logger
}

// NewAnalysisRetryTaskFactory creates a factory bound to a reanalyzer.
func NewAnalysisRetryTaskFactory(reanalyzer Reanalyzer, logger *slog.Logger) *AnalysisRetryTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisRetryTaskFactory{
		reanalyzer: reanalyzer,
		logger:     logger,
	}
}

// CreateTask rebuilds an AnalysisRetryTask from its persisted form.
func (f *AnalysisRetryTaskFactory) CreateTask(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status TaskStatus,
) (Task, error) {
	if taskType != TaskTypeAnalysisRetry {
		return nil, fmt.Errorf("unsupported task type: %s", taskType)
	}

	var p analysisRetryPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	if p.ConversationID == uuid.Nil {
		return nil, fmt.Errorf("task payload missing conversation ID")
	}

	return &AnalysisRetryTask{
		id:             id,
		conversationID: p.ConversationID,
		payload:        payload,
		status:         status,
		reanalyzer:     f.reanalyzer,
		logger:         f.logger.With("task_type", TaskTypeAnalysisRetry),
	}, nil
}
