package handlers

import (
	"net/http"

	"voxdesk/internal/logger"
	"voxdesk/internal/models"
	"voxdesk/internal/service"
)

// CallHandler serves phone normalization and call initiation
type CallHandler struct {
	calls *service.CallService
	log   *logger.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(calls *service.CallService, log *logger.Logger) *CallHandler {
	return &CallHandler{calls: calls, log: log}
}

// Normalize handles POST /api/phone/normalize
func (h *CallHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	var req models.NormalizeRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}
	writeJSON(w, h.log, http.StatusOK, service.Normalize(req))
}

// Call handles POST /api/calls
func (h *CallHandler) Call(w http.ResponseWriter, r *http.Request) {
	var req models.CallRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}
	res, err := h.calls.Call(r.Context(), tenant(r), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, res)
}
