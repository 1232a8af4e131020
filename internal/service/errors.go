// Package service provides application-level services for managing users,
// conversations, evaluations, and learner progress.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrConversationNotFound indicates the conversation does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrEvaluationNotFound indicates no evaluation exists for the conversation yet.
	// API layer should map this to HTTP 404 Not Found.
	ErrEvaluationNotFound = errors.New("evaluation not found")

	// ErrTranscriptRequired indicates an analysis request arrived without transcript text.
	// API layer should map this to HTTP 400 Bad Request.
	ErrTranscriptRequired = errors.New("transcript is required")

	// ErrUnsupportedAudioType indicates an audio upload with a content type or
	// extension outside the accepted set.
	// API layer should map this to HTTP 400 Bad Request.
	ErrUnsupportedAudioType = errors.New("unsupported audio file type")
)
