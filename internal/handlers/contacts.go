package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"voxdesk/internal/csvfile"
	"voxdesk/internal/logger"
	"voxdesk/internal/models"
	"voxdesk/internal/service"
)

const maxImportSize = 10 << 20

// ContactHandler serves contact CRUD, import and export
type ContactHandler struct {
	contacts *service.ContactService
	importer *service.ImportService
	log      *logger.Logger
	now      func() time.Time
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts *service.ContactService, importer *service.ImportService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, importer: importer, log: log, now: time.Now}
}

// List handles GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context(), tenant(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, contacts)
}

// Get handles GET /api/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.contacts.Get(r.Context(), tenant(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, c)
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}
	c, err := h.contacts.Create(r.Context(), tenant(r), r.Header.Get(UserHeader), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, c)
}

// Update handles PUT /api/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}
	c, err := h.contacts.Update(r.Context(), tenant(r), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, c)
}

// Delete handles DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), tenant(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/contacts/import. The CSV is either the raw
// body or the "file" field of a multipart form.
func (h *ContactHandler) Import(w http.ResponseWriter, r *http.Request) {
	skip := true
	if v := r.URL.Query().Get("skipDuplicates"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, h.log, http.StatusBadRequest, errorResponse{Error: "skipDuplicates must be true or false"})
			return
		}
		skip = parsed
	}

	text, err := readCSV(r)
	if err != nil {
		writeJSON(w, h.log, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := h.importer.Import(r.Context(), service.ImportRequest{
		SubAccountID:   tenant(r),
		CreatedBy:      r.Header.Get(UserHeader),
		CSV:            text,
		SkipDuplicates: skip,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, res)
}

// Export handles GET /api/contacts/export
func (h *ContactHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.contacts.Export(r.Context(), tenant(r), &buf); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", csvfile.ExportFilename(h.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func readCSV(r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportSize)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", fmt.Errorf("missing file field: %w", err)
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return string(data), nil
}
