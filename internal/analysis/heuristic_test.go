package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, transcript string, duration float64) *Result {
	t.Helper()
	analyzer := NewHeuristicAnalyzer(nil)
	result, err := analyzer.Analyze(context.Background(), Request{
		Transcript:      transcript,
		DurationSeconds: duration,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestHeuristicAnalyzer_EmptyTranscript(t *testing.T) {
	analyzer := NewHeuristicAnalyzer(nil)

	for _, transcript := range []string{"", "   ", "\n\t"} {
		result, err := analyzer.Analyze(context.Background(), Request{Transcript: transcript})
		assert.ErrorIs(t, err, ErrEmptyTranscript)
		assert.Nil(t, result)
	}
}

func TestHeuristicAnalyzer_SingleWord(t *testing.T) {
	result := analyze(t, "hello", 0)

	// Single-word responses bottom out at the dimension floors.
	assert.Equal(t, 1.0, result.GrammarScore)
	assert.Equal(t, 0.1, result.VocabularyScore)
	assert.Equal(t, 0.1, result.FluencyScore)
	assert.Equal(t, "A1", result.ProficiencyLevel)
	assert.Less(t, result.OverallScore, 15.0)
}

func TestHeuristicAnalyzer_ScoreBounds(t *testing.T) {
	transcripts := []string{
		"hello",
		"I like coffee.",
		"Yesterday I went to the market and bought fresh vegetables because I wanted to cook dinner for my family.",
		"Although the weather was terrible, we decided to continue our journey. However, the roads were slippery, " +
			"which made the trip considerably more dangerous than we had anticipated. Therefore we stopped at a " +
			"small village and waited until the storm passed.",
	}

	for _, transcript := range transcripts {
		result := analyze(t, transcript, 0)

		assert.GreaterOrEqual(t, result.GrammarScore, 0.0)
		assert.LessOrEqual(t, result.GrammarScore, MaxGrammar)
		assert.GreaterOrEqual(t, result.VocabularyScore, 0.0)
		assert.LessOrEqual(t, result.VocabularyScore, MaxVocabulary)
		assert.GreaterOrEqual(t, result.FluencyScore, 0.0)
		assert.LessOrEqual(t, result.FluencyScore, MaxFluency)
		assert.GreaterOrEqual(t, result.ComprehensionScore, 0.0)
		assert.LessOrEqual(t, result.ComprehensionScore, MaxComprehension)

		sum := result.GrammarScore + result.VocabularyScore + result.FluencyScore + result.ComprehensionScore
		assert.InDelta(t, sum, result.OverallScore, 0.05,
			"overall score should be the sum of the dimensions")
	}
}

func TestHeuristicAnalyzer_LongerTextScoresHigher(t *testing.T) {
	short := analyze(t, "I like coffee.", 0)
	long := analyze(t, "Yesterday I went to the market with my sister because we wanted to buy fresh "+
		"vegetables and fruit for the week. After that we visited a small cafe where we talked about "+
		"our plans for the summer holidays.", 0)

	assert.Greater(t, long.OverallScore, short.OverallScore)
	assert.Greater(t, long.ComprehensionScore, short.ComprehensionScore)
}

func TestHeuristicAnalyzer_RepetitionLowersGrammar(t *testing.T) {
	clean := analyze(t, "I think that we should go to the park today", 0)
	repeated := analyze(t, "I I think that that we should go go to to the the park", 0)

	assert.Greater(t, clean.GrammarScore, repeated.GrammarScore)
}

func TestHeuristicAnalyzer_ArticleMisuseLowersGrammar(t *testing.T) {
	correct := analyze(t, "She gave me an apple and a banana to eat with an orange today here", 0)
	wrong := analyze(t, "She gave me a apple and an banana to eat with a orange today here", 0)

	assert.Greater(t, correct.GrammarScore, wrong.GrammarScore)
}

func TestHeuristicAnalyzer_SpeechRateAffectsFluency(t *testing.T) {
	transcript := strings.Repeat("today we talked about the weather and our holiday plans together ", 3)
	wordCount := len(strings.Fields(transcript))

	// Duration tuned so words-per-minute lands in the ideal 120-180 band.
	idealDuration := float64(wordCount) / 150 * 60
	// And one where the learner crawls at ~30 wpm.
	slowDuration := float64(wordCount) / 30 * 60

	ideal := analyze(t, transcript, idealDuration)
	slow := analyze(t, transcript, slowDuration)

	assert.Greater(t, ideal.FluencyScore, slow.FluencyScore)
}

func TestHeuristicAnalyzer_DetailedFeedback(t *testing.T) {
	result := analyze(t, "Yesterday I visited the museum because I wanted to learn about history.", 0)

	require.NotNil(t, result.DetailedFeedback)
	assert.Equal(t, "rule-based", result.DetailedFeedback["analysis_method"])
	assert.Contains(t, result.DetailedFeedback, "grammar_errors")
	assert.Contains(t, result.DetailedFeedback, "vocabulary")
	assert.Contains(t, result.DetailedFeedback, "fluency")
}

func TestHeuristicAnalyzer_FeedbackNeverEmpty(t *testing.T) {
	for _, transcript := range []string{"hi", "I went to the store and bought some bread and milk today."} {
		result := analyze(t, transcript, 0)

		assert.NotEmpty(t, result.Strengths)
		assert.NotEmpty(t, result.Improvements)
		assert.NotEmpty(t, result.Recommendations)
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		level string
	}{
		{0, "A1"},
		{14.9, "A1"},
		{15, "A2"},
		{24.9, "A2"},
		{25, "B1"},
		{39.9, "B1"},
		{40, "B2"},
		{54.9, "B2"},
		{55, "C1"},
		{69.9, "C1"},
		{70, "C2"},
		{85, "C2"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.level, LevelForScore(tc.score), "score %.1f", tc.score)
	}
}
