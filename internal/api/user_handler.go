package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/imaging"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
)

// avatarFormField is the multipart field carrying the avatar upload.
const avatarFormField = "avatar"

// multipartOverhead is the allowance for multipart framing on top of the
// avatar size limit.
const multipartOverhead = 64 << 10

// UserHandler handles account, session and avatar requests.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, token, err := h.userService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, msgInvalidCredentials)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidCredentials, err)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout handles POST /users/logout. Only the token used for this request
// is revoked.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.userService.Logout(r.Context(), user.ID, shared.GetToken(r.Context())); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.userService.LogoutAll(r.Context(), user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateMe handles PATCH /users/me. Keys outside the allowlist reject the
// whole request before anything is validated or written.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var upd domain.UserUpdate
	if err := shared.DecodeUpdate(r, domain.UserUpdatableFields, &upd); err != nil {
		if errors.Is(err, domain.ErrInvalidUpdates) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user, upd)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	log.Debug("profile updated", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// DeleteMe handles DELETE /users/me. The user's tasks are removed first.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), user); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UploadAvatar handles POST /users/me/avatar.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	upload, err := readAvatarUpload(w, r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userService.SetAvatar(r.Context(), user.ID, upload); err != nil {
		HandleAPIError(w, r, err, "Failed to store avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar. Clearing an absent avatar succeeds.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.userService.ClearAvatar(r.Context(), user.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to clear avatar")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetAvatar handles GET /users/{id}/avatar. It is public.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	image, err := h.userService.GetAvatar(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Debug("failed to write avatar", slog.String("error", err.Error()))
	}
}

// readAvatarUpload extracts the avatar file from a multipart request and
// enforces the extension and size limits.
func readAvatarUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxAvatarBytes+multipartOverhead)

	if err := r.ParseMultipartForm(imaging.MaxAvatarBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, imaging.ErrTooLarge
		}
		return nil, imaging.ErrUnsupportedFormat
	}

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		return nil, imaging.ErrUnsupportedFormat
	}
	defer func() { _ = file.Close() }()

	if err := imaging.ValidateUpload(header.Filename, header.Size); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > imaging.MaxAvatarBytes {
		return nil, imaging.ErrTooLarge
	}
	return data, nil
}
