package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/platform/logger"
	"github.com/lingualabs/lingua-api/internal/store"
)

// defaultConversationPageSize bounds list queries when the caller passes no limit.
const defaultConversationPageSize = 20

// PostgresConversationStore implements the store.ConversationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresConversationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresConversationStore creates a new PostgreSQL implementation of the
// ConversationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresConversationStore(db store.DBTX, logger *slog.Logger) *PostgresConversationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresConversationStore{
		db:     db,
		logger: logger.With(slog.String("component", "conversation_store")),
	}
}

// Ensure PostgresConversationStore implements store.ConversationStore interface
var _ store.ConversationStore = (*PostgresConversationStore)(nil)

// Create implements store.ConversationStore.Create
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresConversationStore) Create(ctx context.Context, conversation *domain.Conversation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := conversation.Validate(); err != nil {
		log.Warn("conversation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversation.ID.String()))
		return err
	}

	query := `
		INSERT INTO conversations
			(id, user_id, title, description, topic, difficulty_level, language,
			 transcript, audio_path, duration_seconds, status, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		conversation.ID,
		conversation.UserID,
		conversation.Title,
		conversation.Description,
		conversation.Topic,
		conversation.DifficultyLevel,
		conversation.Language,
		conversation.Transcript,
		conversation.AudioPath,
		conversation.DurationSeconds,
		conversation.Status,
		conversation.CreatedAt,
		conversation.UpdatedAt,
		conversation.CompletedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during conversation creation",
				slog.String("error", err.Error()),
				slog.String("conversation_id", conversation.ID.String()),
				slog.String("user_id", conversation.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, conversation.UserID)
		}

		log.Error("failed to create conversation",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversation.ID.String()),
			slog.String("user_id", conversation.UserID.String()))
		return err
	}

	log.Info("conversation created successfully",
		slog.String("conversation_id", conversation.ID.String()),
		slog.String("user_id", conversation.UserID.String()),
		slog.String("status", string(conversation.Status)))
	return nil
}

// GetByID implements store.ConversationStore.GetByID
// Returns store.ErrConversationNotFound if the conversation does not exist.
func (s *PostgresConversationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving conversation by ID", slog.String("conversation_id", id.String()))

	query := selectConversationQuery + ` WHERE id = $1`

	conversation, err := scanConversation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("conversation not found", slog.String("conversation_id", id.String()))
			return nil, store.ErrConversationNotFound
		}
		log.Error("failed to get conversation by ID",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return nil, err
	}

	return conversation, nil
}

// ListByUserID implements store.ConversationStore.ListByUserID
// Returns an empty slice if the user has no conversations.
func (s *PostgresConversationStore) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*domain.Conversation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = defaultConversationPageSize
	}
	if offset < 0 {
		offset = 0
	}

	log.Debug("listing conversations by user",
		slog.String("user_id", userID.String()),
		slog.Int("limit", limit),
		slog.Int("offset", offset))

	query := selectConversationQuery + `
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to query conversations by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var conversations []*domain.Conversation
	for rows.Next() {
		conversation, err := scanConversationRow(rows)
		if err != nil {
			log.Error("failed to scan conversation row",
				slog.String("error", err.Error()))
			return nil, err
		}
		conversations = append(conversations, conversation)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no conversations found
	if conversations == nil {
		conversations = []*domain.Conversation{}
	}

	log.Debug("found conversations by user",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(conversations)))
	return conversations, nil
}

// CountByUserID implements store.ConversationStore.CountByUserID
func (s *PostgresConversationStore) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM conversations WHERE user_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		log.Error("failed to count conversations by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, err
	}

	return count, nil
}

// Update implements store.ConversationStore.Update
// Returns store.ErrConversationNotFound if the conversation does not exist.
func (s *PostgresConversationStore) Update(ctx context.Context, conversation *domain.Conversation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := conversation.Validate(); err != nil {
		log.Warn("conversation validation failed during update",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversation.ID.String()))
		return err
	}

	query := `
		UPDATE conversations
		SET title = $1, description = $2, topic = $3, difficulty_level = $4, language = $5,
		    transcript = $6, audio_path = $7, duration_seconds = $8, status = $9,
		    updated_at = $10, completed_at = $11
		WHERE id = $12
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		conversation.Title,
		conversation.Description,
		conversation.Topic,
		conversation.DifficultyLevel,
		conversation.Language,
		conversation.Transcript,
		conversation.AudioPath,
		conversation.DurationSeconds,
		conversation.Status,
		conversation.UpdatedAt,
		conversation.CompletedAt,
		conversation.ID,
	)

	if err != nil {
		log.Error("failed to update conversation",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversation.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversation.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("conversation not found for update",
			slog.String("conversation_id", conversation.ID.String()))
		return store.ErrConversationNotFound
	}

	log.Info("conversation updated successfully",
		slog.String("conversation_id", conversation.ID.String()),
		slog.String("status", string(conversation.Status)))
	return nil
}

// UpdateStatus implements store.ConversationStore.UpdateStatus
// Returns store.ErrConversationNotFound if the conversation does not exist.
func (s *PostgresConversationStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.ConversationStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("updating conversation status",
		slog.String("conversation_id", id.String()),
		slog.String("status", string(status)))

	now := time.Now().UTC()

	// Completed conversations also record their completion time.
	var completedAt *time.Time
	if status == domain.ConversationStatusCompleted {
		completedAt = &now
	}

	query := `
		UPDATE conversations
		SET status = $1, updated_at = $2, completed_at = COALESCE($3, completed_at)
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, now, completedAt, id)
	if err != nil {
		log.Error("failed to update conversation status",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()),
			slog.String("status", string(status)))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("conversation not found for status update",
			slog.String("conversation_id", id.String()))
		return store.ErrConversationNotFound
	}

	log.Info("conversation status updated successfully",
		slog.String("conversation_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// Delete implements store.ConversationStore.Delete
// Returns store.ErrConversationNotFound if the conversation does not exist.
func (s *PostgresConversationStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM conversations WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete conversation",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("conversation not found for delete",
			slog.String("conversation_id", id.String()))
		return store.ErrConversationNotFound
	}

	log.Info("conversation deleted successfully",
		slog.String("conversation_id", id.String()))
	return nil
}

// WithTx implements store.ConversationStore.WithTx
// It returns a new store instance bound to the given transaction.
func (s *PostgresConversationStore) WithTx(tx *sql.Tx) store.ConversationStore {
	return &PostgresConversationStore{
		db:     tx,
		logger: s.logger,
	}
}

const selectConversationQuery = `
	SELECT id, user_id, title, description, topic, difficulty_level, language,
	       transcript, audio_path, duration_seconds, status, created_at, updated_at, completed_at
	FROM conversations
`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row *sql.Row) (*domain.Conversation, error) {
	return scanConversationRow(row)
}

func scanConversationRow(row rowScanner) (*domain.Conversation, error) {
	var conversation domain.Conversation
	var status string
	var description, topic, transcript, audioPath sql.NullString
	var durationSeconds sql.NullFloat64
	var completedAt sql.NullTime

	err := row.Scan(
		&conversation.ID,
		&conversation.UserID,
		&conversation.Title,
		&description,
		&topic,
		&conversation.DifficultyLevel,
		&conversation.Language,
		&transcript,
		&audioPath,
		&durationSeconds,
		&status,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	conversation.Status = domain.ConversationStatus(status)
	conversation.Description = description.String
	conversation.Topic = topic.String
	conversation.Transcript = transcript.String
	conversation.AudioPath = audioPath.String
	conversation.DurationSeconds = durationSeconds.Float64
	if completedAt.Valid {
		conversation.CompletedAt = &completedAt.Time
	}

	return &conversation, nil
}
