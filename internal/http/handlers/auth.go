package handlers

import (
	"net/http"
	"time"

	"gohire/internal/app"
	"gohire/internal/common"
	"gohire/internal/http/middleware"
	"gohire/internal/http/response"
)

const (
	signInLimit  = 10
	signInWindow = time.Minute
)

type AuthHandler struct {
	auth     *app.AuthService
	sessions *app.SessionService
	limiter  middleware.Limiter
}

func NewAuthHandler(auth *app.AuthService, sessions *app.SessionService, limiter middleware.Limiter) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, limiter: limiter}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetPasswordRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
}

type recoverRequest struct {
	Token string `json:"token"`
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req app.SignUpInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.SignUp(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow("signin:"+middleware.ClientIP(r), signInLimit, signInWindow) {
		response.Error(w, rateLimited("too many sign-in attempts"))
		return
	}
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.SignIn(r.Context(), req.Email, req.Password, req.From)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.SignOut(r.Context(), req.RefreshToken)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.auth.RequestPasswordReset(r.Context(), req.Email, req.RedirectTo); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *AuthHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req recoverRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.VerifyRecovery(r.Context(), req.Token)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.sessions.Resolve(r.Context(), middleware.TokenFromContext(r.Context())))
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.auth.UpdatePassword(r.Context(), userID, middleware.PurposeFromContext(r.Context()), req.Password); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "updated", "redirect_to": "/login"})
}

// SessionStream pushes SIGNED_IN, SIGNED_OUT, PASSWORD_RECOVERY and
// USER_UPDATED notifications for the caller as server-sent events.
func (h *AuthHandler) SessionStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, common.NewError(common.CodeInternal, "streaming unsupported", nil))
		return
	}
	ctx := r.Context()
	changes, err := h.sessions.Changes(ctx, userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case change, open := <-changes:
			if !open {
				return
			}
			if err := writeEvent(w, change.Event, change); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
