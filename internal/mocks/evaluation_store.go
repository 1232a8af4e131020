package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/store"
)

// MockEvaluationStore implements store.EvaluationStore for testing.
type MockEvaluationStore struct {
	CreateFn              func(ctx context.Context, evaluation *domain.Evaluation) error
	GetByConversationIDFn func(ctx context.Context, conversationID uuid.UUID) (*domain.Evaluation, error)
	UpdateFn              func(ctx context.Context, evaluation *domain.Evaluation) error
	ListRecentByUserIDFn  func(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Evaluation, error)
	GetProgressStatsFn    func(ctx context.Context, userID uuid.UUID) (*store.ProgressStats, error)

	// Default return values used when no Fn override is set
	Evaluation  *domain.Evaluation
	Evaluations []*domain.Evaluation
	Stats       *store.ProgressStats
	Err         error
}

var _ store.EvaluationStore = (*MockEvaluationStore)(nil)

func (m *MockEvaluationStore) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, evaluation)
	}
	return m.Err
}

func (m *MockEvaluationStore) GetByConversationID(
	ctx context.Context,
	conversationID uuid.UUID,
) (*domain.Evaluation, error) {
	if m.GetByConversationIDFn != nil {
		return m.GetByConversationIDFn(ctx, conversationID)
	}
	return m.Evaluation, m.Err
}

func (m *MockEvaluationStore) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, evaluation)
	}
	return m.Err
}

func (m *MockEvaluationStore) ListRecentByUserID(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Evaluation, error) {
	if m.ListRecentByUserIDFn != nil {
		return m.ListRecentByUserIDFn(ctx, userID, limit)
	}
	return m.Evaluations, m.Err
}

func (m *MockEvaluationStore) GetProgressStats(
	ctx context.Context,
	userID uuid.UUID,
) (*store.ProgressStats, error) {
	if m.GetProgressStatsFn != nil {
		return m.GetProgressStatsFn(ctx, userID)
	}
	return m.Stats, m.Err
}

func (m *MockEvaluationStore) WithTx(tx *sql.Tx) store.EvaluationStore {
	return m
}
