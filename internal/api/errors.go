package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lingualabs/lingua-api/internal/api/shared"
	"github.com/lingualabs/lingua-api/internal/domain"
	"github.com/lingualabs/lingua-api/internal/service"
	"github.com/lingualabs/lingua-api/internal/service/auth"
	"github.com/lingualabs/lingua-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors map to 500 so internal details never drive the response shape.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. Ownership failures answer 404 so responses never
	// reveal whether another user's record exists.
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrConversationNotFound),
		errors.Is(err, store.ErrEvaluationNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrEvaluationNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrEvaluationExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrTranscriptRequired),
		errors.Is(err, service.ErrUnsupportedAudioType):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for an error.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrConversationNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, service.ErrNotOwned):
		return "Conversation not found"

	case errors.Is(err, store.ErrEvaluationNotFound),
		errors.Is(err, service.ErrEvaluationNotFound):
		return "Evaluation not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrEvaluationExists):
		return "Conversation has already been evaluated"

	case errors.Is(err, service.ErrTranscriptRequired):
		return "Transcript is required"

	case errors.Is(err, service.ErrUnsupportedAudioType):
		return "Unsupported audio file type"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to a status code and sanitized message and
// writes the response. defaultMsg, when non-empty, replaces the generic
// message for errors with no specific mapping.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	msg := GetSafeErrorMessage(err)
	if defaultMsg != "" && status == http.StatusInternalServerError {
		msg = defaultMsg
	}

	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError converts validator errors into a user-friendly
// message without leaking struct internals.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example input: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte":
		return "must not be negative"
	default:
		return "validation failed"
	}
}
