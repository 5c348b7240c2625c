package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"testgen/internal/model"
	"testgen/internal/service"
	"testgen/internal/transport/rest/middleware"
)

// TestHandler handles test generation and export endpoints
type TestHandler struct {
	testSvc *service.TestService
}

// NewTestHandler creates a new test handler
func NewTestHandler(testSvc *service.TestService) *TestHandler {
	return &TestHandler{testSvc: testSvc}
}

// Generate handles POST /v1/tests
func (h *TestHandler) Generate(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req model.GenerateTestRequest
	// an empty body means all defaults
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.testSvc.Generate(r.Context(), p, req)
	switch {
	case errors.Is(err, service.ErrInvalidTestRequest):
		writeError(w, http.StatusBadRequest, "num_questions must be between 1 and 20")
		return
	case errors.Is(err, service.ErrNoCoreValues):
		writeError(w, http.StatusBadRequest, "Please add core values first.")
		return
	case errors.Is(err, service.ErrCoreValuesUnreadable):
		writeError(w, storeStatus(err), "Could not load your core values. Please try again.")
		return
	case errors.Is(err, service.ErrTestNotSaved):
		writeError(w, storeStatus(err), "Failed to save test. Please try again.")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Export handles GET /v1/tests/{testId}/export
func (h *TestHandler) Export(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	test, err := h.testSvc.Export(r.Context(), p, mux.Vars(r)["testId"])
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		writeError(w, http.StatusNotFound, "test not found")
		return
	case err != nil:
		writeError(w, storeStatus(err), "Failed to load test. Please try again.")
		return
	}

	data, err := json.MarshalIndent(test, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", test.ExportFileName()))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Runs handles GET /v1/tests/runs
func (h *TestHandler) Runs(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	runs, err := h.testSvc.RecentRuns(r.Context(), p, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to load generation history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}
