package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lingualabs/lingua-api/internal/domain"
)

// ProgressStats holds aggregate evaluation figures for a single user,
// computed in the database rather than in application code.
type ProgressStats struct {
	TotalConversations   int
	AverageOverallScore  float64
	CurrentLevel         string
	LastConversationDate *time.Time
}

// EvaluationStore defines the interface for evaluation data persistence.
type EvaluationStore interface {
	// Create saves a new evaluation to the store.
	// Returns ErrEvaluationExists if the conversation already has one.
	Create(ctx context.Context, evaluation *domain.Evaluation) error

	// GetByConversationID retrieves the evaluation for a conversation.
	// Returns ErrEvaluationNotFound if none exists.
	GetByConversationID(ctx context.Context, conversationID uuid.UUID) (*domain.Evaluation, error)

	// Update replaces an existing evaluation's scores and feedback.
	// Used when a model result supersedes an earlier heuristic one.
	// Returns ErrEvaluationNotFound if the evaluation does not exist.
	Update(ctx context.Context, evaluation *domain.Evaluation) error

	// ListRecentByUserID retrieves the most recent evaluations for
	// conversations owned by the given user, newest first, up to limit.
	ListRecentByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Evaluation, error)

	// GetProgressStats computes aggregate progress figures for the user.
	// A user with no evaluated conversations gets zero values.
	GetProgressStats(ctx context.Context, userID uuid.UUID) (*ProgressStats, error)

	// WithTx returns a new EvaluationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EvaluationStore
}
