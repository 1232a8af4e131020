package analysis

import "errors"

// Common errors returned by analyzers
var (
	// ErrEmptyTranscript is returned when the request carries no transcript text
	ErrEmptyTranscript = errors.New("transcript cannot be empty")

	// ErrAnalysisFailed is returned when transcript analysis fails for any general reason
	ErrAnalysisFailed = errors.New("failed to analyze transcript")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during transcript analysis")

	// ErrInvalidConfig is returned when the analyzer configuration is invalid
	ErrInvalidConfig = errors.New("invalid analyzer configuration")
)
