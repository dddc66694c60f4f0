package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
)

// getPathUUID parses the named chi path parameter as a UUID. A missing or
// malformed value wraps domain.ErrInvalidID, which maps to 404.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireUser returns the user placed in the context by the auth middleware.
// It writes a 401 and returns false when there is none.
func requireUser(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*domain.User, bool) {
	user, ok := shared.GetUser(r.Context())
	if !ok {
		log.Warn("user not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return nil, false
	}
	return user, true
}

// handleUserAndPathUUID extracts the authenticated user and a UUID path
// parameter, writing the error response if either is missing.
func handleUserAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (*domain.User, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContext(r.Context())
	}

	user, ok := requireUser(w, r, log)
	if !ok {
		return nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}

	return user, pathID, true
}
