package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/handler/dto"
	"github.com/taskpad/taskpad/internal/service"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", result.UserID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		UserID:      result.UserID,
		ExpiresIn:   int64(result.ExpiresIn.Seconds()),
	})
}

// Logout handles POST /api/auth/logout. Runs behind the auth middleware.
// The presented token is denylisted until its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.accounts.Logout(r.Context(), identity); err != nil {
		h.logger.Error("logout_failed", "error", err, "user_id", identity.UserID)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("user_logged_out", "user_id", identity.UserID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/auth/me. Runs behind the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.accounts.GetUser(r.Context(), userID)
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleAccountError maps account service errors to HTTP responses.
func (h *AuthHandler) handleAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "A user with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
	case errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrEmailInvalid),
		errors.Is(err, service.ErrPasswordRequired):
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
