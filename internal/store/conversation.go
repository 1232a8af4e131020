package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lingualabs/lingua-api/internal/domain"
)

// ConversationStore defines the interface for conversation data persistence.
type ConversationStore interface {
	// Create saves a new conversation to the store.
	// Returns validation errors from the domain Conversation if data is invalid.
	Create(ctx context.Context, conversation *domain.Conversation) error

	// GetByID retrieves a conversation by its unique ID.
	// Returns ErrConversationNotFound if the conversation does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)

	// ListByUserID retrieves conversations owned by the given user, newest
	// first. offset and limit control paging; a limit of 0 applies the
	// store's default page size.
	ListByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Conversation, error)

	// CountByUserID returns the number of conversations owned by the given user.
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)

	// Update modifies an existing conversation.
	// Returns ErrConversationNotFound if the conversation does not exist.
	Update(ctx context.Context, conversation *domain.Conversation) error

	// UpdateStatus sets the status of a conversation without touching its
	// other fields. Returns ErrConversationNotFound if it does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ConversationStatus) error

	// Delete removes a conversation from the store by its ID.
	// Returns ErrConversationNotFound if the conversation does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ConversationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ConversationStore
}
