package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"testgen/internal/model"
	"testgen/internal/service"
	"testgen/internal/transport/rest/middleware"
)

// CoreValueHandler handles core value endpoints
type CoreValueHandler struct {
	coreValueSvc *service.CoreValueService
}

// NewCoreValueHandler creates a new core value handler
func NewCoreValueHandler(coreValueSvc *service.CoreValueService) *CoreValueHandler {
	return &CoreValueHandler{coreValueSvc: coreValueSvc}
}

// CoreValuesResponse carries the caller's list after an operation
type CoreValuesResponse struct {
	CoreValues []model.CoreValue `json:"core_values"`
	Warning    string            `json:"warning,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// ReplaceCoreValuesRequest is the request body for replacing the list
type ReplaceCoreValuesRequest struct {
	CoreValues []model.CoreValue `json:"core_values"`
}

// List handles GET /v1/core-values
func (h *CoreValueHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	values, err := h.coreValueSvc.List(r.Context(), p)
	if err != nil {
		if storeStatus(err) == http.StatusUnauthorized {
			writeError(w, http.StatusUnauthorized, "session expired, please log in again")
			return
		}
		// the page still renders; the caller sees an empty list and a warning
		writeJSON(w, http.StatusOK, CoreValuesResponse{
			CoreValues: values,
			Warning:    "Could not load your core values. Please refresh.",
		})
		return
	}
	writeJSON(w, http.StatusOK, CoreValuesResponse{CoreValues: values})
}

// Add handles POST /v1/core-values
func (h *CoreValueHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.CoreValue
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values, err := h.coreValueSvc.Add(r.Context(), p, req)
	if err != nil {
		h.writeMutationError(w, values, err)
		return
	}
	writeJSON(w, http.StatusCreated, CoreValuesResponse{CoreValues: values})
}

// Replace handles PUT /v1/core-values
func (h *CoreValueHandler) Replace(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ReplaceCoreValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values, err := h.coreValueSvc.Replace(r.Context(), p, req.CoreValues)
	if err != nil {
		h.writeMutationError(w, values, err)
		return
	}
	writeJSON(w, http.StatusOK, CoreValuesResponse{CoreValues: values})
}

// Delete handles DELETE /v1/core-values/{index}
func (h *CoreValueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be a number")
		return
	}

	values, err := h.coreValueSvc.Delete(r.Context(), p, index)
	if err != nil {
		h.writeMutationError(w, values, err)
		return
	}
	writeJSON(w, http.StatusOK, CoreValuesResponse{CoreValues: values})
}

func (h *CoreValueHandler) writeMutationError(w http.ResponseWriter, values []model.CoreValue, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCoreValue):
		writeError(w, http.StatusBadRequest, "Core value name is required")
	case errors.Is(err, service.ErrCoreValueIndex):
		writeError(w, http.StatusNotFound, "core value not found")
	case errors.Is(err, service.ErrCoreValuesNotSaved):
		// values is the list as it was before the failed change
		writeJSON(w, storeStatus(err), CoreValuesResponse{
			CoreValues: values,
			Error:      "Failed to save core values. Please try again.",
		})
	case errors.Is(err, service.ErrCoreValuesUnreadable):
		writeError(w, storeStatus(err), "Could not load your core values. Please try again.")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
