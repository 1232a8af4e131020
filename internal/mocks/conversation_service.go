package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/service"
)

// MockConversationService implements service.ConversationService for testing.
type MockConversationService struct {
	CreateConversationFn    func(ctx context.Context, userID uuid.UUID, input service.CreateConversationInput) (*domain.Conversation, error)
	GetConversationFn       func(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error)
	ListConversationsFn     func(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Conversation, int, error)
	DeleteConversationFn    func(ctx context.Context, userID, conversationID uuid.UUID) error
	AnalyzeConversationFn   func(ctx context.Context, userID, conversationID uuid.UUID, input service.AnalyzeInput) (*domain.Evaluation, error)
	GetEvaluationFn         func(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Evaluation, error)
	AttachAudioFn           func(ctx context.Context, userID, conversationID uuid.UUID, filename, contentType string, r io.Reader) (string, error)
	ReanalyzeConversationFn func(ctx context.Context, conversationID uuid.UUID) error

	// Default return values used when no Fn override is set
	Conversation  *domain.Conversation
	Conversations []*domain.Conversation
	Total         int
	Evaluation    *domain.Evaluation
	AudioPath     string
	Err           error
}

var _ service.ConversationService = (*MockConversationService)(nil)

func (m *MockConversationService) CreateConversation(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreateConversationInput,
) (*domain.Conversation, error) {
	if m.CreateConversationFn != nil {
		return m.CreateConversationFn(ctx, userID, input)
	}
	return m.Conversation, m.Err
}

func (m *MockConversationService) GetConversation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) (*domain.Conversation, error) {
	if m.GetConversationFn != nil {
		return m.GetConversationFn(ctx, userID, conversationID)
	}
	return m.Conversation, m.Err
}

func (m *MockConversationService) ListConversations(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, int, error) {
	if m.ListConversationsFn != nil {
		return m.ListConversationsFn(ctx, userID, offset, limit)
	}
	return m.Conversations, m.Total, m.Err
}

func (m *MockConversationService) DeleteConversation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) error {
	if m.DeleteConversationFn != nil {
		return m.DeleteConversationFn(ctx, userID, conversationID)
	}
	return m.Err
}

func (m *MockConversationService) AnalyzeConversation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
	input service.AnalyzeInput,
) (*domain.Evaluation, error) {
	if m.AnalyzeConversationFn != nil {
		return m.AnalyzeConversationFn(ctx, userID, conversationID, input)
	}
	return m.Evaluation, m.Err
}

func (m *MockConversationService) GetEvaluation(
	ctx context.Context,
	userID, conversationID uuid.UUID,
) (*domain.Evaluation, error) {
	if m.GetEvaluationFn != nil {
		return m.GetEvaluationFn(ctx, userID, conversationID)
	}
	return m.Evaluation, m.Err
}

func (m *MockConversationService) AttachAudio(
	ctx context.Context,
	userID, conversationID uuid.UUID,
	filename, contentType string,
	r io.Reader,
) (string, error) {
	if m.AttachAudioFn != nil {
		return m.AttachAudioFn(ctx, userID, conversationID, filename, contentType, r)
	}
	return m.AudioPath, m.Err
}

func (m *MockConversationService) ReanalyzeConversation(
	ctx context.Context,
	conversationID uuid.UUID,
) error {
	if m.ReanalyzeConversationFn != nil {
		return m.ReanalyzeConversationFn(ctx, conversationID)
	}
	return m.Err
}
