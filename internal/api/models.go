package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email          string `json:"email"           validate:"required,email"`
	Password       string `json:"password"        validate:"required,min=8,max=72"`
	DisplayName    string `json:"display_name"    validate:"omitempty,max=100"`
	NativeLanguage string `json:"native_language" validate:"omitempty,max=10"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateConversationRequest defines the payload for creating a conversation.
type CreateConversationRequest struct {
	Title           string `json:"title"            validate:"required,max=200"`
	Description     string `json:"description"      validate:"omitempty,max=2000"`
	Topic           string `json:"topic"            validate:"omitempty,max=100"`
	DifficultyLevel string `json:"difficulty_level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Language        string `json:"language"         validate:"omitempty,max=10"`
}

// AnalyzeRequest defines the payload for submitting a transcript for analysis.
type AnalyzeRequest struct {
	Transcript      string  `json:"transcript"       validate:"required"`
	Context         string  `json:"context"          validate:"omitempty,max=500"`
	DurationSeconds float64 `json:"duration_seconds" validate:"omitempty,gte=0"`
}

// ConversationResponse is the API representation of a conversation.
type ConversationResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Topic           string     `json:"topic,omitempty"`
	DifficultyLevel string     `json:"difficulty_level,omitempty"`
	Language        string     `json:"language"`
	Transcript      string     `json:"transcript,omitempty"`
	AudioPath       string     `json:"audio_path,omitempty"`
	DurationSeconds float64    `json:"duration_seconds,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// ConversationListResponse is a paginated list of conversations.
type ConversationListResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
	Total         int                    `json:"total"`
	Offset        int                    `json:"offset"`
	Limit         int                    `json:"limit"`
}

// EvaluationResponse is the API representation of an evaluation.
type EvaluationResponse struct {
	ID                 uuid.UUID      `json:"id"`
	ConversationID     uuid.UUID      `json:"conversation_id"`
	OverallScore       float64        `json:"overall_score"`
	GrammarScore       float64        `json:"grammar_score"`
	VocabularyScore    float64        `json:"vocabulary_score"`
	FluencyScore       float64        `json:"fluency_score"`
	ComprehensionScore float64        `json:"comprehension_score"`
	ProficiencyLevel   string         `json:"proficiency_level"`
	Strengths          []string       `json:"strengths"`
	Improvements       []string       `json:"improvements"`
	Recommendations    []string       `json:"recommendations"`
	DetailedFeedback   map[string]any `json:"detailed_feedback,omitempty"`
	Method             string         `json:"evaluation_method"`
	IsAIGenerated      bool           `json:"is_ai_generated"`
	CreatedAt          time.Time      `json:"created_at"`
}

// AudioUploadResponse reports where an uploaded audio file was stored.
type AudioUploadResponse struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	AudioPath      string    `json:"audio_path"`
}

func toConversationResponse(c *domain.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		Title:           c.Title,
		Description:     c.Description,
		Topic:           c.Topic,
		DifficultyLevel: c.DifficultyLevel,
		Language:        c.Language,
		Transcript:      c.Transcript,
		AudioPath:       c.AudioPath,
		DurationSeconds: c.DurationSeconds,
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		CompletedAt:     c.CompletedAt,
	}
}

func toEvaluationResponse(e *domain.Evaluation) EvaluationResponse {
	return EvaluationResponse{
		ID:                 e.ID,
		ConversationID:     e.ConversationID,
		OverallScore:       e.OverallScore,
		GrammarScore:       e.GrammarScore,
		VocabularyScore:    e.VocabularyScore,
		FluencyScore:       e.FluencyScore,
		ComprehensionScore: e.ComprehensionScore,
		ProficiencyLevel:   e.ProficiencyLevel,
		Strengths:          e.Strengths,
		Improvements:       e.Improvements,
		Recommendations:    e.Recommendations,
		DetailedFeedback:   e.DetailedFeedback,
		Method:             e.Method,
		IsAIGenerated:      e.IsAIGenerated,
		CreatedAt:          e.CreatedAt,
	}
}
