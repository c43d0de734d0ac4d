package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"voxdesk/internal/logger"
	"voxdesk/internal/middleware"
	"voxdesk/internal/service"
	"voxdesk/internal/voice"
)

// UserHeader carries the acting user id
const UserHeader = "X-User-ID"

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorw("error encoding response", "error", err)
	}
}

// writeError maps service errors to HTTP statuses
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, service.ErrEmptyFile):
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrContactNotFound):
		writeJSON(w, log, http.StatusNotFound, errorResponse{Error: "contact not found"})
	case errors.Is(err, voice.ErrCallFailed):
		writeJSON(w, log, http.StatusBadGateway, errorResponse{Error: "call could not be placed"})
	default:
		log.Errorw("internal error", "error", err)
		writeJSON(w, log, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debugw("error decoding request", "error", err)
		writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return false
	}
	return true
}

// RequireTenant rejects API requests without a sub-account header
func RequireTenant(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(middleware.TenantHeader) == "" {
				writeJSON(w, log, http.StatusBadRequest, errorResponse{Error: middleware.TenantHeader + " header is required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tenant(r *http.Request) string {
	return r.Header.Get(middleware.TenantHeader)
}
