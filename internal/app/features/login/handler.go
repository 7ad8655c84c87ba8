// internal/app/features/login/handler.go
package login

import (
	"net/http"

	uierrors "github.com/dalemusser/safetyapp/internal/app/features/errors"
	"github.com/dalemusser/safetyapp/internal/app/services/authapi"
	"github.com/dalemusser/safetyapp/internal/app/system/auth"
	"github.com/dalemusser/safetyapp/internal/app/system/ratelimit"
	"github.com/dalemusser/safetyapp/internal/app/system/respond"
	"go.uber.org/zap"
)

// Handler signs browsers in by storing the backend token in a cookie
// session, and proxies password recovery.
type Handler struct {
	SessionMgr *auth.SessionManager
	Auth       *authapi.Client
	Accounts   *ratelimit.AccountLimiter
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(sm *auth.SessionManager, authClient *authapi.Client, accounts *ratelimit.AccountLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sm,
		Auth:       authClient,
		Accounts:   accounts,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type sessionRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
}

func toResponse(u *auth.SessionUser) sessionResponse {
	return sessionResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CompanyID: u.CompanyID,
	}
}

// CreateSession handles POST /session with {"token": "..."}. The token is
// verified before it is stored.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := respond.Decode(r, &req); err != nil || req.Token == "" {
		h.ErrLog.LogBadRequest(w, r, "decode session request failed", err, "A token is required.")
		return
	}
	u, err := h.SessionMgr.SaveToken(w, r, req.Token)
	if err != nil {
		h.Log.Info("rejected session token", zap.Error(err))
		respond.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}
	h.Log.Info("session created", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	respond.JSON(w, http.StatusOK, toResponse(u))
}

// CurrentSession handles GET /session.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(u))
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ForgotPassword handles POST /auth/forgot-password.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode forgot password failed", err, "Invalid request body.")
		return
	}
	if h.Accounts != nil && !h.Accounts.AllowEmail(req.Email) {
		respond.Error(w, http.StatusTooManyRequests, "Too many reset requests for this account. Please wait a few minutes.")
		return
	}
	out, err := h.Auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.ErrLog.Write(w, r, "forgot password failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode reset password failed", err, "Invalid request body.")
		return
	}
	out, err := h.Auth.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		h.ErrLog.Write(w, r, "reset password failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
