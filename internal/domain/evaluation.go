package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Score bounds for each evaluation dimension.
const (
	MaxGrammarScore       = 25.0
	MaxVocabularyScore    = 20.0
	MaxFluencyScore       = 20.0
	MaxComprehensionScore = 20.0
	MaxOverallScore       = 100.0
)

// Evaluation methods distinguish how the scores were produced.
const (
	EvaluationMethodLLM       = "llm"
	EvaluationMethodHeuristic = "heuristic"
)

// Common validation errors for Evaluation
var (
	ErrEmptyEvaluationID             = errors.New("evaluation ID cannot be empty")
	ErrEmptyEvaluationConversationID = errors.New("evaluation conversation ID cannot be empty")
	ErrScoreOutOfRange               = errors.New("evaluation score out of range")
	ErrInvalidProficiencyLevel       = errors.New("invalid proficiency level")
	ErrInvalidEvaluationMethod       = errors.New("invalid evaluation method")
)

// Evaluation holds the scored assessment of a conversation transcript.
// Dimension scores use the same scale regardless of which method produced
// them, so heuristic results can later be replaced by model results in place.
type Evaluation struct {
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
	Method             string         `json:"method"`
	IsAIGenerated      bool           `json:"is_ai_generated"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// NewEvaluation creates a new Evaluation for the given conversation.
// It generates a new UUID and sets the timestamps. Returns an error if
// validation fails.
func NewEvaluation(conversationID uuid.UUID, method string) (*Evaluation, error) {
	eval := &Evaluation{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Method:         method,
		IsAIGenerated:  method == EvaluationMethodLLM,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if eval.ID == uuid.Nil {
		return nil, ErrEmptyEvaluationID
	}
	if conversationID == uuid.Nil {
		return nil, ErrEmptyEvaluationConversationID
	}
	if !isValidEvaluationMethod(method) {
		return nil, ErrInvalidEvaluationMethod
	}

	return eval, nil
}

// Validate checks if the Evaluation has valid data.
// Returns an error if any field fails validation.
func (e *Evaluation) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEvaluationID
	}

	if e.ConversationID == uuid.Nil {
		return ErrEmptyEvaluationConversationID
	}

	if !isValidEvaluationMethod(e.Method) {
		return ErrInvalidEvaluationMethod
	}

	if e.ProficiencyLevel != "" && !isValidDifficultyLevel(e.ProficiencyLevel) {
		return ErrInvalidProficiencyLevel
	}

	if !inRange(e.OverallScore, 0, MaxOverallScore) ||
		!inRange(e.GrammarScore, 0, MaxGrammarScore) ||
		!inRange(e.VocabularyScore, 0, MaxVocabularyScore) ||
		!inRange(e.FluencyScore, 0, MaxFluencyScore) ||
		!inRange(e.ComprehensionScore, 0, MaxComprehensionScore) {
		return ErrScoreOutOfRange
	}

	return nil
}

func isValidEvaluationMethod(method string) bool {
	return method == EvaluationMethodLLM || method == EvaluationMethodHeuristic
}

func inRange(v, min, max float64) bool {
	return v >= min && v <= max
}
