package handler

import (
	"encoding/json"
	"net/http"

	"user-api/internal/service"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
)

// AuthHandler handles signup and login requests
type AuthHandler struct {
	log  *logger.Logger
	auth *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(log *logger.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		log:  log,
		auth: auth,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Warn("Invalid signup request body")
		writeError(w, h.log, errors.NewValidationError().Add("body", "Invalid request body."))
		return
	}

	if err := h.auth.SignUp(r.Context(), req.Email, req.Password); err != nil {
		h.log.WithError(err).WithField("email", req.Email).Warn("Signup failed")
		writeError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Login handles POST /auth/login
// Note: this endpoint uses the admin direct password flow and exists for
// administrative test logins only.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Warn("Invalid login request body")
		writeError(w, h.log, errors.NewValidationError().Add("body", "Invalid request body."))
		return
	}

	verr := errors.NewValidationError()
	if req.Email == "" {
		verr.Add("email", "This field is required.")
	}
	if req.Password == "" {
		verr.Add("password", "This field is required.")
	}
	if verr.HasErrors() {
		writeError(w, h.log, verr)
		return
	}

	tokens, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.WithError(err).WithField("email", req.Email).Warn("Login failed")
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, tokens)
}
