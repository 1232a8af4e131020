package analysis

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/lingualabs/lingua-api/internal/platform/logger"
)

// HeuristicAnalyzer scores transcripts with rule-based checks only. It is
// the fallback when the model-backed analyzer is unavailable or failing,
// so it must never error on non-empty input.
type HeuristicAnalyzer struct {
	logger *slog.Logger
}

// NewHeuristicAnalyzer creates a new rule-based analyzer.
// If logger is nil, a default logger will be used.
func NewHeuristicAnalyzer(logger *slog.Logger) *HeuristicAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeuristicAnalyzer{
		logger: logger.With(slog.String("component", "heuristic_analyzer")),
	}
}

// Ensure HeuristicAnalyzer implements Analyzer interface
var _ Analyzer = (*HeuristicAnalyzer)(nil)

var sentenceSplitRegex = regexp.MustCompile(`[.!?]+`)

// Analyze implements Analyzer. Each dimension is scored independently and
// the overall score is their sum.
func (a *HeuristicAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	if strings.TrimSpace(req.Transcript) == "" {
		return nil, ErrEmptyTranscript
	}

	grammar, grammarErrors := scoreGrammar(req.Transcript)
	vocabulary, vocabMetrics := scoreVocabulary(req.Transcript)
	fluency, fluencyMetrics := scoreFluency(req.Transcript, req.DurationSeconds)
	comprehension := scoreComprehension(req.Transcript)

	overall := grammar + vocabulary + fluency + comprehension
	level := LevelForScore(overall)

	result := &Result{
		OverallScore:       roundScore(overall),
		GrammarScore:       roundScore(grammar),
		VocabularyScore:    roundScore(vocabulary),
		FluencyScore:       roundScore(fluency),
		ComprehensionScore: roundScore(comprehension),
		ProficiencyLevel:   level,
		DetailedFeedback: map[string]any{
			"grammar_errors":  grammarErrors,
			"vocabulary":      vocabMetrics,
			"fluency":         fluencyMetrics,
			"analysis_method": "rule-based",
		},
	}
	result.Strengths, result.Improvements, result.Recommendations = buildFeedback(result)

	log.Debug("heuristic analysis completed",
		slog.Float64("overall_score", result.OverallScore),
		slog.String("proficiency_level", level))

	return result, nil
}

// scoreGrammar detects repeated words and a/an article misuse, then maps the
// error rate into a 0-25 score with reductions for short texts.
func scoreGrammar(text string) (float64, []map[string]any) {
	words := strings.Fields(text)
	wordCount := len(words)

	var grammarErrors []map[string]any
	errorCount := 0

	for i, word := range words {
		if i > 0 && strings.EqualFold(word, words[i-1]) {
			grammarErrors = append(grammarErrors, map[string]any{
				"type":        "repetition",
				"description": "Repeated word: '" + word + "'",
				"severity":    "medium",
				"position":    i,
			})
			errorCount++
		}

		lower := strings.ToLower(strings.Trim(word, ".,!?;:'\""))
		if (lower == "a" || lower == "an") && i+1 < len(words) {
			next := strings.ToLower(strings.Trim(words[i+1], ".,!?;:'\""))
			if next != "" && !articleAgrees(lower, next) {
				grammarErrors = append(grammarErrors, map[string]any{
					"type":        "article_usage",
					"description": "Incorrect article usage: '" + word + "'",
					"severity":    "medium",
					"position":    i,
				})
				errorCount++
			}
		}
	}

	errorRate := float64(errorCount) / math.Max(float64(wordCount), 1)

	var base float64
	switch {
	case errorRate < 0.05:
		base = 25
	case errorRate < 0.1:
		base = 22
	case errorRate < 0.15:
		base = 18
	case errorRate < 0.25:
		base = 15
	default:
		base = math.Max(8, 25-float64(errorCount)*1.5)
	}

	switch {
	case wordCount < 2:
		base = math.Max(1, base-15)
	case wordCount < 3:
		base = math.Max(2, base-10)
	case wordCount < 5:
		base = math.Max(3, base-6)
	case wordCount < 10:
		base = math.Max(5, base-3)
	}

	penalty := lengthPenalty(wordCount, 25, 22, 18, 12)
	return math.Max(1, base-penalty), grammarErrors
}

// scoreVocabulary rewards diversity and advanced vocabulary and docks points
// for probable misspellings, capped at 20.
func scoreVocabulary(text string) (float64, map[string]any) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0, map[string]any{}
	}
	wordCount := len(words)

	spellingErrors := 0
	var misspelled []string
	advancedCount := 0
	unique := make(map[string]struct{}, wordCount)
	totalLen := 0

	for _, word := range words {
		unique[word] = struct{}{}
		totalLen += len(word)

		if advancedWords.contains(word) {
			advancedCount++
		}

		clean := stripNonLetters(word)
		if len(clean) > 1 && !commonWords.contains(clean) {
			spellingErrors++
			misspelled = append(misspelled, clean)
		}
	}

	base := math.Min(10, float64(wordCount)*0.4)
	spellingPenalty := float64(spellingErrors) * 2.5
	advancedBonus := math.Min(6, float64(advancedCount)*1.5)
	diversityBonus := math.Min(4, float64(len(unique))*0.15)

	avgWordLength := float64(totalLen) / float64(wordCount)
	sophisticationBonus := math.Min(2, (avgWordLength-4)*0.5)

	penalty := lengthPenalty(wordCount, 15, 12, 8, 4)
	total := base + advancedBonus + diversityBonus + sophisticationBonus - spellingPenalty - penalty

	var minScore float64
	switch {
	case wordCount < 2:
		minScore = math.Max(0.1, float64(wordCount)*0.1)
	case wordCount < 3:
		minScore = math.Max(0.3, float64(wordCount)*0.2)
	case wordCount < 5:
		minScore = math.Max(0.5, float64(wordCount)*0.3)
	default:
		minScore = math.Max(1, float64(wordCount)*0.15)
	}

	metrics := map[string]any{
		"word_count":      wordCount,
		"unique_words":    len(unique),
		"advanced_words":  advancedCount,
		"spelling_errors": spellingErrors,
	}
	if len(misspelled) > 3 {
		misspelled = misspelled[:3]
	}
	if len(misspelled) > 0 {
		metrics["misspelled"] = misspelled
	}

	return math.Max(minScore, math.Min(MaxVocabulary, total)), metrics
}

// scoreFluency combines estimated speech rate, sentence length, and lexical
// diversity into a 0-20 score. Without a duration the rate defaults to a
// neutral 150 words per minute.
func scoreFluency(text string, durationSeconds float64) (float64, map[string]any) {
	words := strings.Fields(text)
	wordCount := len(words)
	if wordCount == 0 {
		return 0, map[string]any{}
	}

	wpm := 150.0
	if durationSeconds > 0 {
		wpm = float64(wordCount) / durationSeconds * 60
	}

	var sentenceLengths []int
	for _, s := range sentenceSplitRegex.Split(text, -1) {
		if n := len(strings.Fields(s)); n > 0 {
			sentenceLengths = append(sentenceLengths, n)
		}
	}
	avgSentenceLength := 0.0
	if len(sentenceLengths) > 0 {
		total := 0
		for _, n := range sentenceLengths {
			total += n
		}
		avgSentenceLength = float64(total) / float64(len(sentenceLengths))
	}

	unique := make(map[string]struct{}, wordCount)
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	lexicalDiversity := float64(len(unique)) / float64(wordCount)

	wpmScore := 0.4
	switch {
	case wpm >= 120 && wpm <= 180:
		wpmScore = 1.0
	case wpm >= 100 && wpm <= 200:
		wpmScore = 0.7
	}

	sentenceScore := 0.7
	if avgSentenceLength >= 8 && avgSentenceLength <= 20 {
		sentenceScore = 1.0
	}

	diversityScore := math.Min(1.0, lexicalDiversity*2)

	base := (wpmScore + sentenceScore + diversityScore) / 3 * 20

	switch {
	case wordCount < 2:
		base = math.Max(0.1, base-12)
	case wordCount < 3:
		base = math.Max(0.2, base-8)
	case wordCount < 5:
		base = math.Max(0.5, base-5)
	case wordCount < 10:
		base = math.Max(1, base-2)
	}

	penalty := lengthPenalty(wordCount, 18, 15, 12, 8)

	metrics := map[string]any{
		"words_per_minute":        wpm,
		"average_sentence_length": avgSentenceLength,
		"lexical_diversity":       lexicalDiversity,
		"unique_words":            len(unique),
	}

	return math.Max(0.1, base-penalty), metrics
}

// scoreComprehension estimates how much substance the text carries: length,
// sentence complexity, long-word ratio, and coherence markers, 0-20.
func scoreComprehension(text string) float64 {
	words := strings.Fields(text)
	wordCount := len(words)
	if wordCount == 0 {
		return 0
	}

	score := 0.0

	switch {
	case wordCount >= 30:
		score += 6
	case wordCount >= 20:
		score += 5
	case wordCount >= 15:
		score += 4
	case wordCount >= 10:
		score += 3
	case wordCount >= 5:
		score += 0.5
	case wordCount >= 3:
		score += 0.2
	case wordCount >= 2:
		score += 0.1
	default:
		score += 0.05
	}

	sentences := strings.Split(text, ".")
	avgSentenceLength := float64(wordCount) / float64(len(sentences))
	switch {
	case avgSentenceLength >= 12:
		score += 6
	case avgSentenceLength >= 8:
		score += 5
	case avgSentenceLength >= 6:
		score += 4
	case avgSentenceLength >= 4:
		score += 3
	default:
		score += 2
	}

	longWords := 0
	for _, w := range words {
		if len(w) > 5 {
			longWords++
		}
	}
	sophisticationRatio := float64(longWords) / float64(wordCount)
	switch {
	case sophisticationRatio >= 0.2:
		score += 6
	case sophisticationRatio >= 0.15:
		score += 5
	case sophisticationRatio >= 0.1:
		score += 4
	case sophisticationRatio >= 0.05:
		score += 3
	default:
		score += 2
	}

	coherence := 0.0
	if transitionWords.containsAny(text) {
		coherence += 3
	}
	if complexConjunctions.containsAny(text) {
		coherence += 2
	}
	if relativePronouns.containsAny(text) {
		coherence++
	}
	score += math.Min(6, coherence)

	minScore := math.Min(6, float64(wordCount)/3)
	return math.Min(MaxComprehension, math.Max(minScore, score))
}

// buildFeedback derives learner-facing feedback lists from dimension scores.
func buildFeedback(r *Result) (strengths, improvements, recommendations []string) {
	if r.GrammarScore >= 20 {
		strengths = append(strengths, "Strong grammatical accuracy")
	} else if r.GrammarScore < 12 {
		improvements = append(improvements, "Work on basic sentence structure and word order")
		recommendations = append(recommendations, "Practice forming complete sentences with subject and verb")
	}

	if r.VocabularyScore >= 14 {
		strengths = append(strengths, "Varied and appropriate vocabulary")
	} else if r.VocabularyScore < 8 {
		improvements = append(improvements, "Expand everyday vocabulary")
		recommendations = append(recommendations, "Learn new words in context and reuse them in conversation")
	}

	if r.FluencyScore >= 14 {
		strengths = append(strengths, "Natural pacing and sentence flow")
	} else if r.FluencyScore < 8 {
		improvements = append(improvements, "Build longer, connected responses")
		recommendations = append(recommendations, "Practice speaking in full sentences rather than single words")
	}

	if r.ComprehensionScore >= 14 {
		strengths = append(strengths, "Clear and coherent expression of ideas")
	} else if r.ComprehensionScore < 8 {
		improvements = append(improvements, "Develop ideas with more detail and connecting words")
		recommendations = append(recommendations, "Use linking words such as 'because', 'however', and 'therefore'")
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "Communication attempted")
	}
	if len(improvements) == 0 {
		improvements = append(improvements, "Continue practicing regularly")
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Keep up consistent conversation practice")
	}
	return strengths, improvements, recommendations
}

// lengthPenalty returns the short-text penalty for a dimension, with
// per-band values supplied by the caller.
func lengthPenalty(wordCount int, under2, under3, under5, under10 float64) float64 {
	switch {
	case wordCount < 2:
		return under2
	case wordCount < 3:
		return under3
	case wordCount < 5:
		return under5
	case wordCount < 10:
		return under10
	default:
		return 0
	}
}

// articleAgrees reports whether the article fits the next word's first sound,
// approximated by its first letter.
func articleAgrees(article, next string) bool {
	vowel := strings.ContainsRune("aeiou", rune(next[0]))
	if article == "a" {
		return !vowel
	}
	return vowel
}

func stripNonLetters(word string) string {
	var b strings.Builder
	for _, r := range word {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// roundScore keeps stored scores to two decimal places.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
