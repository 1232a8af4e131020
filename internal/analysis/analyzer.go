package analysis

import "context"

// Dimension score ceilings. The overall score is the sum of the four
// dimensions, so it tops out at 85 rather than 100.
const (
	MaxGrammar       = 25.0
	MaxVocabulary    = 20.0
	MaxFluency       = 20.0
	MaxComprehension = 20.0
	MaxOverall       = MaxGrammar + MaxVocabulary + MaxFluency + MaxComprehension
)

// Request carries a transcript and its context into an analyzer.
type Request struct {
	// Transcript is the learner's conversation text. Required.
	Transcript string

	// Context optionally describes the conversation setting or topic.
	Context string

	// DurationSeconds is the length of the source audio, if known.
	// Used for speech-rate estimation; zero means unknown.
	DurationSeconds float64

	// Language is the language being practiced.
	Language string
}

// Result is a scored assessment of a transcript.
type Result struct {
	OverallScore       float64
	GrammarScore       float64
	VocabularyScore    float64
	FluencyScore       float64
	ComprehensionScore float64
	ProficiencyLevel   string
	Strengths          []string
	Improvements       []string
	Recommendations    []string
	DetailedFeedback   map[string]any
}

// Analyzer scores a conversation transcript.
// Implementations must be safe for concurrent use.
type Analyzer interface {
	// Analyze scores the transcript in the request.
	// Returns an error if the transcript is empty or scoring fails
	// (see errors.go for specific types).
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// LevelForScore maps an overall score (summed dimensions, max 85)
// to a CEFR proficiency level.
func LevelForScore(overall float64) string {
	switch {
	case overall >= 70:
		return "C2"
	case overall >= 55:
		return "C1"
	case overall >= 40:
		return "B2"
	case overall >= 25:
		return "B1"
	case overall >= 15:
		return "A2"
	default:
		return "A1"
	}
}
