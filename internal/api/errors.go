package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/imaging"
	"github.com/phrazzld/task-manager-api/internal/service/auth"
	"github.com/phrazzld/task-manager-api/internal/store"
)

// Client-facing messages fixed by the API contract.
const (
	msgUnauthorized       = "Please authenticate."
	msgInvalidCredentials = "Unable to login"
	msgInvalidUpdates     = "Invalid updates!"
	msgInvalidRequest     = "Invalid request format"
	msgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors. Malformed ids are indistinguishable from missing rows.
	case store.IsNotFoundError(err),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidUpdates),
		errors.Is(err, domain.ErrInvalidCredentials),
		store.IsDuplicateError(err),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, imaging.ErrUnsupportedFormat),
		errors.Is(err, imaging.ErrTooLarge),
		errors.Is(err, imaging.ErrUndecodable),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that reveals no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	var ve *domain.ValidationError

	switch {
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		return msgUnauthorized

	case errors.Is(err, domain.ErrInvalidCredentials):
		return msgInvalidCredentials

	case errors.Is(err, domain.ErrInvalidUpdates):
		return msgInvalidUpdates

	case errors.Is(err, store.ErrEmailExists):
		return "Email is already in use"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrAvatarNotFound):
		return "Avatar not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, domain.ErrInvalidID), store.IsNotFoundError(err):
		return "Not found"

	case store.IsDuplicateError(err):
		return "Resource already exists"

	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return imaging.ErrUnsupportedFormat.Error()

	case errors.Is(err, imaging.ErrTooLarge):
		return imaging.ErrTooLarge.Error()

	case errors.Is(err, imaging.ErrUndecodable):
		return imaging.ErrUndecodable.Error()

	case errors.As(err, &ve):
		return "Validation failed: " + ve.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted error. A non-empty fallback replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into a client-safe message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := strings.ToLower(fieldParts[1])
				if len(fieldParts) >= 5 && fieldParts[3] != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fieldParts[3]))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too short"
	case "max", "lte":
		return "too long"
	default:
		return "validation failed"
	}
}
