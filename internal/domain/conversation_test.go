package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	userID := uuid.New()
	conv, err := NewConversation(userID, "Ordering coffee", "A cafe role play", "daily life", LevelB1, "")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, conv.ID)
	assert.Equal(t, userID, conv.UserID)
	assert.Equal(t, "Ordering coffee", conv.Title)
	assert.Equal(t, LevelB1, conv.DifficultyLevel)
	assert.Equal(t, "en", conv.Language, "empty language defaults to English")
	assert.Equal(t, ConversationStatusPending, conv.Status)
	assert.Nil(t, conv.CompletedAt)
}

func TestNewConversation_ValidationErrors(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		userID  uuid.UUID
		title   string
		topic   string
		level   string
		wantErr error
	}{
		{"empty user ID", uuid.Nil, "Title", "", LevelA1, ErrEmptyConversationUserID},
		{"empty title", userID, "", "", LevelA1, ErrEmptyConversationTitle},
		{"title too long", userID, strings.Repeat("t", 201), "", LevelA1, ErrConversationTitleTooLong},
		{"topic too long", userID, "Title", strings.Repeat("t", 101), LevelA1, ErrConversationTopicTooLong},
		{"bad difficulty level", userID, "Title", "", "Z9", ErrInvalidDifficultyLevel},
		{"empty difficulty level", userID, "Title", "", "", ErrInvalidDifficultyLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConversation(tc.userID, tc.title, "", tc.topic, tc.level, "en")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestConversation_UpdateStatus(t *testing.T) {
	conv, err := NewConversation(uuid.New(), "Title", "", "", LevelA2, "en")
	require.NoError(t, err)

	require.NoError(t, conv.UpdateStatus(ConversationStatusProcessing))
	assert.Equal(t, ConversationStatusProcessing, conv.Status)
	assert.Nil(t, conv.CompletedAt)

	require.NoError(t, conv.UpdateStatus(ConversationStatusCompleted))
	assert.Equal(t, ConversationStatusCompleted, conv.Status)
	require.NotNil(t, conv.CompletedAt)
	assert.WithinDuration(t, conv.UpdatedAt, *conv.CompletedAt, 0)

	assert.ErrorIs(t, conv.UpdateStatus("bogus"), ErrInvalidConversationStatus)
}

func TestConversation_AttachTranscript(t *testing.T) {
	conv, err := NewConversation(uuid.New(), "Title", "", "", LevelB2, "en")
	require.NoError(t, err)

	require.NoError(t, conv.AttachTranscript("Hello, I would like a coffee please.", 42.5))
	assert.Equal(t, "Hello, I would like a coffee please.", conv.Transcript)
	assert.Equal(t, 42.5, conv.DurationSeconds)
	assert.Equal(t, ConversationStatusProcessing, conv.Status)
}

func TestConversation_AttachTranscript_Empty(t *testing.T) {
	conv, err := NewConversation(uuid.New(), "Title", "", "", LevelB2, "en")
	require.NoError(t, err)

	err = conv.AttachTranscript("", 0)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, ConversationStatusPending, conv.Status)
}

func TestConversation_AttachTranscript_ZeroDurationKeepsExisting(t *testing.T) {
	conv, err := NewConversation(uuid.New(), "Title", "", "", LevelB2, "en")
	require.NoError(t, err)
	conv.DurationSeconds = 30

	require.NoError(t, conv.AttachTranscript("Some transcript.", 0))
	assert.Equal(t, 30.0, conv.DurationSeconds)
}
