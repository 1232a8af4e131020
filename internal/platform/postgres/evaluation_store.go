package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/platform/logger"
	"github.com/lingualabs/lingua-api/internal/store"
)

// PostgresEvaluationStore implements the store.EvaluationStore interface
// using a PostgreSQL database as the storage backend. Feedback lists and
// the detailed feedback document are stored as JSONB columns.
type PostgresEvaluationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEvaluationStore creates a new PostgreSQL implementation of the
// EvaluationStore interface. If logger is nil, a default logger will be used.
func NewPostgresEvaluationStore(db store.DBTX, logger *slog.Logger) *PostgresEvaluationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEvaluationStore{
		db:     db,
		logger: logger.With(slog.String("component", "evaluation_store")),
	}
}

// Ensure PostgresEvaluationStore implements store.EvaluationStore interface
var _ store.EvaluationStore = (*PostgresEvaluationStore)(nil)

// Create implements store.EvaluationStore.Create
// Returns store.ErrEvaluationExists if the conversation already has an evaluation.
// Returns store.ErrInvalidEntity if the conversation ID doesn't exist.
func (s *PostgresEvaluationStore) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := evaluation.Validate(); err != nil {
		log.Warn("evaluation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	strengths, improvements, recommendations, detailed, err := marshalFeedback(evaluation)
	if err != nil {
		log.Error("failed to marshal evaluation feedback",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	query := `
		INSERT INTO evaluations
			(id, conversation_id, overall_score, grammar_score, vocabulary_score,
			 fluency_score, comprehension_score, proficiency_level,
			 strengths, improvements, recommendations, detailed_feedback,
			 method, is_ai_generated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		evaluation.ID,
		evaluation.ConversationID,
		evaluation.OverallScore,
		evaluation.GrammarScore,
		evaluation.VocabularyScore,
		evaluation.FluencyScore,
		evaluation.ComprehensionScore,
		evaluation.ProficiencyLevel,
		strengths,
		improvements,
		recommendations,
		detailed,
		evaluation.Method,
		evaluation.IsAIGenerated,
		evaluation.CreatedAt,
		evaluation.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolationCode:
				log.Warn("evaluation already exists for conversation",
					slog.String("conversation_id", evaluation.ConversationID.String()))
				return store.ErrEvaluationExists
			case pgForeignKeyViolationCode:
				log.Warn("foreign key violation during evaluation creation",
					slog.String("conversation_id", evaluation.ConversationID.String()))
				return fmt.Errorf("%w: conversation with ID %s not found",
					store.ErrInvalidEntity, evaluation.ConversationID)
			}
		}

		log.Error("failed to create evaluation",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	log.Info("evaluation created successfully",
		slog.String("evaluation_id", evaluation.ID.String()),
		slog.String("conversation_id", evaluation.ConversationID.String()),
		slog.String("method", evaluation.Method))
	return nil
}

// GetByConversationID implements store.EvaluationStore.GetByConversationID
// Returns store.ErrEvaluationNotFound if none exists.
func (s *PostgresEvaluationStore) GetByConversationID(
	ctx context.Context,
	conversationID uuid.UUID,
) (*domain.Evaluation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := selectEvaluationQuery + ` WHERE conversation_id = $1`

	evaluation, err := scanEvaluationRow(s.db.QueryRowContext(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("evaluation not found",
				slog.String("conversation_id", conversationID.String()))
			return nil, store.ErrEvaluationNotFound
		}
		log.Error("failed to get evaluation by conversation ID",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversationID.String()))
		return nil, err
	}

	return evaluation, nil
}

// Update implements store.EvaluationStore.Update
// Returns store.ErrEvaluationNotFound if the evaluation does not exist.
func (s *PostgresEvaluationStore) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := evaluation.Validate(); err != nil {
		log.Warn("evaluation validation failed during update",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	strengths, improvements, recommendations, detailed, err := marshalFeedback(evaluation)
	if err != nil {
		log.Error("failed to marshal evaluation feedback",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	query := `
		UPDATE evaluations
		SET overall_score = $1, grammar_score = $2, vocabulary_score = $3,
		    fluency_score = $4, comprehension_score = $5, proficiency_level = $6,
		    strengths = $7, improvements = $8, recommendations = $9,
		    detailed_feedback = $10, method = $11, is_ai_generated = $12, updated_at = $13
		WHERE id = $14
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		evaluation.OverallScore,
		evaluation.GrammarScore,
		evaluation.VocabularyScore,
		evaluation.FluencyScore,
		evaluation.ComprehensionScore,
		evaluation.ProficiencyLevel,
		strengths,
		improvements,
		recommendations,
		detailed,
		evaluation.Method,
		evaluation.IsAIGenerated,
		evaluation.UpdatedAt,
		evaluation.ID,
	)

	if err != nil {
		log.Error("failed to update evaluation",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("evaluation_id", evaluation.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("evaluation not found for update",
			slog.String("evaluation_id", evaluation.ID.String()))
		return store.ErrEvaluationNotFound
	}

	log.Info("evaluation updated successfully",
		slog.String("evaluation_id", evaluation.ID.String()),
		slog.String("method", evaluation.Method))
	return nil
}

// ListRecentByUserID implements store.EvaluationStore.ListRecentByUserID
// Evaluations are joined through the conversations table so only those
// owned by the given user are returned, newest first.
func (s *PostgresEvaluationStore) ListRecentByUserID(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Evaluation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT e.id, e.conversation_id, e.overall_score, e.grammar_score, e.vocabulary_score,
		       e.fluency_score, e.comprehension_score, e.proficiency_level,
		       e.strengths, e.improvements, e.recommendations, e.detailed_feedback,
		       e.method, e.is_ai_generated, e.created_at, e.updated_at
		FROM evaluations e
		JOIN conversations c ON c.id = e.conversation_id
		WHERE c.user_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to query recent evaluations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var evaluations []*domain.Evaluation
	for rows.Next() {
		evaluation, err := scanEvaluationRow(rows)
		if err != nil {
			log.Error("failed to scan evaluation row",
				slog.String("error", err.Error()))
			return nil, err
		}
		evaluations = append(evaluations, evaluation)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if evaluations == nil {
		evaluations = []*domain.Evaluation{}
	}

	log.Debug("found recent evaluations",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(evaluations)))
	return evaluations, nil
}

// GetProgressStats implements store.EvaluationStore.GetProgressStats
// The aggregates are computed in a single query; a user with no evaluated
// conversations gets zero values and an empty current level.
func (s *PostgresEvaluationStore) GetProgressStats(
	ctx context.Context,
	userID uuid.UUID,
) (*store.ProgressStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT
			(SELECT COUNT(*) FROM conversations WHERE user_id = $1),
			COALESCE(AVG(e.overall_score), 0),
			COALESCE(
				(SELECT e2.proficiency_level
				 FROM evaluations e2
				 JOIN conversations c2 ON c2.id = e2.conversation_id
				 WHERE c2.user_id = $1
				 ORDER BY e2.created_at DESC
				 LIMIT 1),
				''),
			(SELECT MAX(created_at) FROM conversations WHERE user_id = $1)
		FROM evaluations e
		JOIN conversations c ON c.id = e.conversation_id
		WHERE c.user_id = $1
	`

	var stats store.ProgressStats
	var lastConversation sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalConversations,
		&stats.AverageOverallScore,
		&stats.CurrentLevel,
		&lastConversation,
	)
	if err != nil {
		log.Error("failed to compute progress stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if lastConversation.Valid {
		stats.LastConversationDate = &lastConversation.Time
	}

	return &stats, nil
}

// WithTx implements store.EvaluationStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresEvaluationStore) WithTx(tx *sql.Tx) store.EvaluationStore {
	return &PostgresEvaluationStore{
		db:     tx,
		logger: s.logger,
	}
}

const selectEvaluationQuery = `
	SELECT id, conversation_id, overall_score, grammar_score, vocabulary_score,
	       fluency_score, comprehension_score, proficiency_level,
	       strengths, improvements, recommendations, detailed_feedback,
	       method, is_ai_generated, created_at, updated_at
	FROM evaluations
`

// marshalFeedback converts the evaluation's feedback fields to JSONB payloads.
func marshalFeedback(evaluation *domain.Evaluation) (strengths, improvements, recommendations, detailed []byte, err error) {
	if strengths, err = json.Marshal(sliceOrEmpty(evaluation.Strengths)); err != nil {
		return nil, nil, nil, nil, err
	}
	if improvements, err = json.Marshal(sliceOrEmpty(evaluation.Improvements)); err != nil {
		return nil, nil, nil, nil, err
	}
	if recommendations, err = json.Marshal(sliceOrEmpty(evaluation.Recommendations)); err != nil {
		return nil, nil, nil, nil, err
	}
	feedback := evaluation.DetailedFeedback
	if feedback == nil {
		feedback = map[string]any{}
	}
	if detailed, err = json.Marshal(feedback); err != nil {
		return nil, nil, nil, nil, err
	}
	return strengths, improvements, recommendations, detailed, nil
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanEvaluationRow(row rowScanner) (*domain.Evaluation, error) {
	var evaluation domain.Evaluation
	var strengths, improvements, recommendations, detailed []byte

	err := row.Scan(
		&evaluation.ID,
		&evaluation.ConversationID,
		&evaluation.OverallScore,
		&evaluation.GrammarScore,
		&evaluation.VocabularyScore,
		&evaluation.FluencyScore,
		&evaluation.ComprehensionScore,
		&evaluation.ProficiencyLevel,
		&strengths,
		&improvements,
		&recommendations,
		&detailed,
		&evaluation.Method,
		&evaluation.IsAIGenerated,
		&evaluation.CreatedAt,
		&evaluation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(strengths, &evaluation.Strengths); err != nil {
		return nil, fmt.Errorf("failed to decode strengths: %w", err)
	}
	if err := json.Unmarshal(improvements, &evaluation.Improvements); err != nil {
		return nil, fmt.Errorf("failed to decode improvements: %w", err)
	}
	if err := json.Unmarshal(recommendations, &evaluation.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	if len(detailed) > 0 {
		if err := json.Unmarshal(detailed, &evaluation.DetailedFeedback); err != nil {
			return nil, fmt.Errorf("failed to decode detailed feedback: %w", err)
		}
	}

	return &evaluation, nil
}
