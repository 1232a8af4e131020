package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/store"
)

// MockConversationStore implements store.ConversationStore for testing.
type MockConversationStore struct {
	CreateFn        func(ctx context.Context, conversation *domain.Conversation) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListByUserIDFn  func(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Conversation, error)
	CountByUserIDFn func(ctx context.Context, userID uuid.UUID) (int, error)
	UpdateFn        func(ctx context.Context, conversation *domain.Conversation) error
	UpdateStatusFn  func(ctx context.Context, id uuid.UUID, status domain.ConversationStatus) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	// Default return values used when no Fn override is set
	Conversation  *domain.Conversation
	Conversations []*domain.Conversation
	Count         int
	Err           error
}

var _ store.ConversationStore = (*MockConversationStore)(nil)

func (m *MockConversationStore) Create(ctx context.Context, conversation *domain.Conversation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, conversation)
	}
	return m.Err
}

func (m *MockConversationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.Conversation, m.Err
}

func (m *MockConversationStore) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID, offset, limit)
	}
	return m.Conversations, m.Err
}

func (m *MockConversationStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountByUserIDFn != nil {
		return m.CountByUserIDFn(ctx, userID)
	}
	return m.Count, m.Err
}

func (m *MockConversationStore) Update(ctx context.Context, conversation *domain.Conversation) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, conversation)
	}
	return m.Err
}

func (m *MockConversationStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ConversationStatus,
) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return m.Err
}

func (m *MockConversationStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}

func (m *MockConversationStore) WithTx(tx *sql.Tx) store.ConversationStore {
	return m
}
