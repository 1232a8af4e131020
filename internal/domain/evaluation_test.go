package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluation(t *testing.T) {
	convID := uuid.New()

	eval, err := NewEvaluation(convID, EvaluationMethodLLM)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, eval.ID)
	assert.Equal(t, convID, eval.ConversationID)
	assert.Equal(t, EvaluationMethodLLM, eval.Method)
	assert.True(t, eval.IsAIGenerated)

	eval, err = NewEvaluation(convID, EvaluationMethodHeuristic)
	require.NoError(t, err)
	assert.False(t, eval.IsAIGenerated)
}

func TestNewEvaluation_Errors(t *testing.T) {
	_, err := NewEvaluation(uuid.Nil, EvaluationMethodLLM)
	assert.ErrorIs(t, err, ErrEmptyEvaluationConversationID)

	_, err = NewEvaluation(uuid.New(), "psychic")
	assert.ErrorIs(t, err, ErrInvalidEvaluationMethod)
}

func TestEvaluation_Validate(t *testing.T) {
	valid := func() *Evaluation {
		return &Evaluation{
			ID:                 uuid.New(),
			ConversationID:     uuid.New(),
			OverallScore:       72.5,
			GrammarScore:       20,
			VocabularyScore:    18,
			FluencyScore:       17,
			ComprehensionScore: 17.5,
			ProficiencyLevel:   LevelC1,
			Method:             EvaluationMethodLLM,
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(*Evaluation)
		wantErr error
	}{
		{"empty ID", func(e *Evaluation) { e.ID = uuid.Nil }, ErrEmptyEvaluationID},
		{"empty conversation ID", func(e *Evaluation) { e.ConversationID = uuid.Nil }, ErrEmptyEvaluationConversationID},
		{"bad method", func(e *Evaluation) { e.Method = "guesswork" }, ErrInvalidEvaluationMethod},
		{"bad level", func(e *Evaluation) { e.ProficiencyLevel = "Z1" }, ErrInvalidProficiencyLevel},
		{"grammar over max", func(e *Evaluation) { e.GrammarScore = 26 }, ErrScoreOutOfRange},
		{"vocabulary negative", func(e *Evaluation) { e.VocabularyScore = -1 }, ErrScoreOutOfRange},
		{"fluency over max", func(e *Evaluation) { e.FluencyScore = 20.5 }, ErrScoreOutOfRange},
		{"overall over max", func(e *Evaluation) { e.OverallScore = 101 }, ErrScoreOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			eval := valid()
			tc.mutate(eval)
			assert.ErrorIs(t, eval.Validate(), tc.wantErr)
		})
	}
}

func TestEvaluation_Validate_EmptyLevelAllowed(t *testing.T) {
	eval := &Evaluation{
		ID:             uuid.New(),
		ConversationID: uuid.New(),
		Method:         EvaluationMethodHeuristic,
	}
	assert.NoError(t, eval.Validate())
}
