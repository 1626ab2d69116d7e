package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reliefbridge/relief-ui-api/internal/domain/model"
	"github.com/reliefbridge/relief-ui-api/internal/service"
	"github.com/reliefbridge/relief-ui-api/internal/session"
)

var errInternal = errors.New("internal server error")

// AuthServiceInterface defines the login capability the handlers depend on.
type AuthServiceInterface interface {
	Login(ctx context.Context, username, secret string) (*service.LoginResult, error)
	RequestAccount(ctx context.Context, in service.RequestAccountInput) (*model.User, error)
	ChangePassword(ctx context.Context, username, oldSecret, newSecret string) error
	ResetForgottenPassword(ctx context.Context, username, newSecret string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc      AuthServiceInterface
	Sessions sessionFactory
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /login. On success the identity is promoted to the
// session and persisted in the identity cookie; on failure nothing changes
// and the error propagates to the login form.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	store := h.Sessions.newStore(w, r)
	if err := store.SetIdentity(r.Context(), session.LoginPayload{
		UserID:   result.UserID,
		Username: result.Username,
		Role:     result.Role,
	}); err != nil {
		h.logger().ErrorContext(r.Context(), "set identity after login failed", "error", err)
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Logout handles POST /logout. Safe to call when already logged out.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	store := h.Sessions.newStore(w, r)
	store.Logout(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Status handles GET /auth/status: the current session view, rehydrated from
// the identity cookie.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	store := h.Sessions.newStore(w, r)
	store.LoadFromPersisted(r.Context())
	WriteJSON(w, http.StatusOK, newSessionView(store.Session()))
}

// RequestAccount handles POST /requestNewAccount. Accounts start unapproved.
func (h *AuthHandlers) RequestAccount(w http.ResponseWriter, r *http.Request) {
	var req service.RequestAccountInput
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.RequestAccount(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"old_password"`
	Password    string `json:"password"`
}

// ChangePassword handles POST /resetPassword (old password verified).
func (h *AuthHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.ChangePassword(r.Context(), req.Username, req.OldPassword, req.Password); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "password successfully updated"})
}

type resetForgottenPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// ResetForgottenPassword handles POST /resetForgottenPassword.
func (h *AuthHandlers) ResetForgottenPassword(w http.ResponseWriter, r *http.Request) {
	var req resetForgottenPasswordRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Svc.ResetForgottenPassword(r.Context(), req.Username, req.NewPassword); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "password successfully updated"})
}
