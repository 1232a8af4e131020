package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ConversationStatus represents the processing state of a conversation.
type ConversationStatus string

// Possible conversation status values
const (
	ConversationStatusPending    ConversationStatus = "pending"
	ConversationStatusProcessing ConversationStatus = "processing"
	ConversationStatusCompleted  ConversationStatus = "completed"
	ConversationStatusFailed     ConversationStatus = "failed"
)

// DifficultyLevel values follow the CEFR scale.
const (
	LevelA1 = "A1"
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
	LevelC2 = "C2"
)

// Common validation errors for Conversation
var (
	ErrEmptyConversationID        = errors.New("conversation ID cannot be empty")
	ErrEmptyConversationUserID    = errors.New("conversation user ID cannot be empty")
	ErrEmptyConversationTitle     = errors.New("conversation title cannot be empty")
	ErrInvalidConversationStatus  = errors.New("invalid conversation status")
	ErrInvalidDifficultyLevel     = errors.New("invalid difficulty level")
	ErrConversationTitleTooLong   = errors.New("conversation title exceeds 200 characters")
	ErrConversationTopicTooLong   = errors.New("conversation topic exceeds 100 characters")
)

// Conversation represents a practice session recorded by a user: metadata
// describing the exercise plus, once submitted, a transcript and optionally
// an uploaded audio file. Evaluations reference conversations by ID.
type Conversation struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	Topic           string             `json:"topic,omitempty"`
	DifficultyLevel string             `json:"difficulty_level"`
	Language        string             `json:"language"`
	Transcript      string             `json:"transcript,omitempty"`
	AudioPath       string             `json:"audio_path,omitempty"`
	DurationSeconds float64            `json:"duration_seconds,omitempty"`
	Status          ConversationStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
}

// NewConversation creates a new Conversation owned by the given user.
// It generates a new UUID, sets the status to pending, and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewConversation(userID uuid.UUID, title, description, topic, difficultyLevel, language string) (*Conversation, error) {
	if language == "" {
		language = "en"
	}

	conv := &Conversation{
		ID:              uuid.New(),
		UserID:          userID,
		Title:           title,
		Description:     description,
		Topic:           topic,
		DifficultyLevel: difficultyLevel,
		Language:        language,
		Status:          ConversationStatusPending,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := conv.Validate(); err != nil {
		return nil, err
	}

	return conv, nil
}

// Validate checks if the Conversation has valid data.
// Returns an error if any field fails validation.
func (c *Conversation) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyConversationID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyConversationUserID
	}

	if c.Title == "" {
		return ErrEmptyConversationTitle
	}

	if len(c.Title) > 200 {
		return ErrConversationTitleTooLong
	}

	if len(c.Topic) > 100 {
		return ErrConversationTopicTooLong
	}

	if !isValidDifficultyLevel(c.DifficultyLevel) {
		return ErrInvalidDifficultyLevel
	}

	if !isValidConversationStatus(c.Status) {
		return ErrInvalidConversationStatus
	}

	return nil
}

// UpdateStatus updates the conversation's status and the UpdatedAt timestamp.
// Transitioning to completed also records CompletedAt.
// Returns an error if the new status is invalid.
func (c *Conversation) UpdateStatus(status ConversationStatus) error {
	if !isValidConversationStatus(status) {
		return ErrInvalidConversationStatus
	}

	c.Status = status
	now := time.Now().UTC()
	c.UpdatedAt = now
	if status == ConversationStatusCompleted {
		c.CompletedAt = &now
	}
	return nil
}

// AttachTranscript records the submitted transcript and optional audio
// duration and moves the conversation into the processing state.
func (c *Conversation) AttachTranscript(transcript string, durationSeconds float64) error {
	if transcript == "" {
		return NewValidationError("transcript", "cannot be empty", ErrValidation)
	}

	c.Transcript = transcript
	if durationSeconds > 0 {
		c.DurationSeconds = durationSeconds
	}
	return c.UpdateStatus(ConversationStatusProcessing)
}

// isValidConversationStatus checks if the given status is a valid ConversationStatus.
func isValidConversationStatus(status ConversationStatus) bool {
	switch status {
	case ConversationStatusPending, ConversationStatusProcessing,
		ConversationStatusCompleted, ConversationStatusFailed:
		return true
	default:
		return false
	}
}

// isValidDifficultyLevel checks the CEFR difficulty level value.
func isValidDifficultyLevel(level string) bool {
	switch level {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	default:
		return false
	}
}
