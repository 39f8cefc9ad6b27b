package handlers

import (
	"net/http"
	"time"

	"gohire/internal/app"
	"gohire/internal/http/middleware"
	"gohire/internal/http/response"
)

type StaffHandler struct {
	staff   *app.StaffService
	limiter middleware.Limiter
}

func NewStaffHandler(staff *app.StaffService, limiter middleware.Limiter) *StaffHandler {
	return &StaffHandler{staff: staff, limiter: limiter}
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.staff.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Invite answers {"data": invitation} on success.
func (h *StaffHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if h.limiter != nil && !h.limiter.Allow("invite:"+userID.String(), 5, time.Minute) {
		response.Error(w, rateLimited("invite rate limit exceeded"))
		return
	}
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	inv, err := h.staff.Invite(r.Context(), userID, req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]any{"data": inv})
}

func (h *StaffHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.staff.Invitations(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
