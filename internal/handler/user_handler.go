package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"user-api/internal/middleware"
	"user-api/internal/repository"
	"user-api/internal/service"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
)

// UserHandler handles user record requests
type UserHandler struct {
	log   *logger.Logger
	users *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(log *logger.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		log:   log,
		users: users,
	}
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, errors.NewUnauthorizedError(errors.CodeInvalidCredentials))
		return
	}

	writeJSON(w, h.log, http.StatusOK, user.Projection())
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		h.log.WithError(err).Error("Failed to list users")
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, page)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeJSON(w, h.log, http.StatusNotFound, errors.ErrorResponse{
				Errors: errors.ErrorBody{
					DeveloperMessage: "User not found.",
					Message:          "User not found.",
					Code:             "ERR_APP_NOT_FOUND",
				},
			})
			return
		}
		h.log.WithError(err).WithField("user_id", id).Error("Failed to get user")
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, user)
}

// Update handles PATCH /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input service.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log.WithError(err).Warn("Invalid update request body")
		writeError(w, h.log, errors.NewValidationError().Add("body", "Invalid request body."))
		return
	}

	user, err := h.users.Update(r.Context(), id, input)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			writeJSON(w, h.log, http.StatusNotFound, errors.ErrorResponse{
				Errors: errors.ErrorBody{
					DeveloperMessage: "User not found.",
					Message:          "User not found.",
					Code:             "ERR_APP_NOT_FOUND",
				},
			})
			return
		}
		h.log.WithError(err).WithField("user_id", id).Warn("Failed to update user")
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, user)
}
