package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lingualabs/lingua-api/internal/analysis"
)

// assessmentSchema mirrors the JSON object the prompt asks the model for.
type assessmentSchema struct {
	OverallScore       float64        `json:"overall_score"`
	GrammarScore       float64        `json:"grammar_score"`
	VocabularyScore    float64        `json:"vocabulary_score"`
	FluencyScore       float64        `json:"fluency_score"`
	ComprehensionScore float64        `json:"comprehension_score"`
	ProficiencyLevel   string         `json:"proficiency_level"`
	Strengths          []string       `json:"strengths"`
	Improvements       []string       `json:"improvements"`
	Recommendations    []string       `json:"recommendations"`
	DetailedFeedback   map[string]any `json:"detailed_feedback"`
}

// Regex patterns for salvaging scores from a non-JSON model response.
var (
	overallScorePattern = regexp.MustCompile(`(?i)overall[_\s]*score[:\s]*(\d+(?:\.\d+)?)`)
	dimensionPatterns   = map[string]*regexp.Regexp{
		"grammar":       regexp.MustCompile(`(?i)grammar[_\s]*score[:\s]*(\d+(?:\.\d+)?)`),
		"vocabulary":    regexp.MustCompile(`(?i)vocabulary[_\s]*score[:\s]*(\d+(?:\.\d+)?)`),
		"fluency":       regexp.MustCompile(`(?i)fluency[_\s]*score[:\s]*(\d+(?:\.\d+)?)`),
		"comprehension": regexp.MustCompile(`(?i)comprehension[_\s]*score[:\s]*(\d+(?:\.\d+)?)`),
	}
	proficiencyPattern = regexp.MustCompile(`(?i)proficiency[_\s]*level[:\s]*"?([A-Ca-c][1-2])`)
)

// parseAssessment converts the raw model response into an analysis.Result.
// It first tries strict JSON decoding of the outermost object, then falls
// back to regex extraction with neutral defaults for anything missing.
func parseAssessment(text string) (*analysis.Result, error) {
	schema, err := decodeAssessmentJSON(text)
	if err != nil {
		schema = fallbackParse(text)
	}

	result := &analysis.Result{
		OverallScore:       clamp(schema.OverallScore, analysis.MaxOverall),
		GrammarScore:       clamp(schema.GrammarScore, analysis.MaxGrammar),
		VocabularyScore:    clamp(schema.VocabularyScore, analysis.MaxVocabulary),
		FluencyScore:       clamp(schema.FluencyScore, analysis.MaxFluency),
		ComprehensionScore: clamp(schema.ComprehensionScore, analysis.MaxComprehension),
		ProficiencyLevel:   strings.ToUpper(schema.ProficiencyLevel),
		Strengths:          schema.Strengths,
		Improvements:       schema.Improvements,
		Recommendations:    schema.Recommendations,
		DetailedFeedback:   schema.DetailedFeedback,
	}

	if !validLevel(result.ProficiencyLevel) {
		result.ProficiencyLevel = analysis.LevelForScore(result.OverallScore)
	}
	if len(result.Strengths) == 0 {
		result.Strengths = []string{"Communication attempted"}
	}
	if len(result.Improvements) == 0 {
		result.Improvements = []string{"Continue practicing"}
	}
	if len(result.Recommendations) == 0 {
		result.Recommendations = []string{"Keep learning"}
	}

	return result, nil
}

// decodeAssessmentJSON extracts the outermost JSON object from the response
// and unmarshals it. Models sometimes wrap the object in prose or fences.
func decodeAssessmentJSON(text string) (*assessmentSchema, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", analysis.ErrInvalidResponse)
	}

	var schema assessmentSchema
	if err := json.Unmarshal([]byte(text[start:end+1]), &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrInvalidResponse, err)
	}
	return &schema, nil
}

// fallbackParse pulls whatever scores it can find out of free text and
// fills the rest with neutral mid-range defaults.
func fallbackParse(text string) *assessmentSchema {
	schema := &assessmentSchema{
		OverallScore:       50.0,
		GrammarScore:       12.5,
		VocabularyScore:    10.0,
		FluencyScore:       10.0,
		ComprehensionScore: 10.0,
		ProficiencyLevel:   "B1",
	}

	if m := overallScorePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			schema.OverallScore = v
		}
	}

	for dim, pattern := range dimensionPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch dim {
		case "grammar":
			schema.GrammarScore = v
		case "vocabulary":
			schema.VocabularyScore = v
		case "fluency":
			schema.FluencyScore = v
		case "comprehension":
			schema.ComprehensionScore = v
		}
	}

	if m := proficiencyPattern.FindStringSubmatch(text); m != nil {
		schema.ProficiencyLevel = strings.ToUpper(m[1])
	}

	return schema
}

func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func validLevel(level string) bool {
	switch level {
	case "A1", "A2", "B1", "B2", "C1", "C2":
		return true
	default:
		return false
	}
}
