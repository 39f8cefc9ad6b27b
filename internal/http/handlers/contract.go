package handlers

import (
	"net/http"

	"gohire/internal/app"
	"gohire/internal/http/middleware"
	"gohire/internal/http/response"
)

type ContractHandler struct {
	contracts *app.ContractService
}

func NewContractHandler(contracts *app.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

type createContractRequest struct {
	ApplicationID string `json:"application_id"`
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	institutionID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req createContractRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := parseUUIDField(req.ApplicationID, "application_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.contracts.Create(r.Context(), institutionID, applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.contracts.List(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ContractHandler) Accept(w http.ResponseWriter, r *http.Request) {
	professorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	contractID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.contracts.Accept(r.Context(), professorID, contractID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ContractHandler) Reject(w http.ResponseWriter, r *http.Request) {
	professorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	contractID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.contracts.Reject(r.Context(), professorID, contractID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"contract": updated})
}
