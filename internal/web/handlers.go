package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shekhar1luitel/quizHub/internal/bulkimport"
	"github.com/shekhar1luitel/quizHub/internal/content"
)

const excelMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// handlePreview accepts a multipart workbook upload and returns the
// read-only reconciliation for the target scope.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.parseScope(w, r)
	if !ok {
		return
	}

	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondMessage(w, http.StatusBadRequest, "File too large or invalid form.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		respondMessage(w, http.StatusBadRequest, "Upload an Excel .xlsx workbook.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Could not read the uploaded file.")
		return
	}
	if len(data) == 0 {
		respondMessage(w, http.StatusBadRequest, "File is empty.")
		return
	}

	preview, err := s.service.PreviewUpload(r.Context(), scope, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, preview)
}

// handleCommit applies an approved payload in one transaction.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.parseScope(w, r)
	if !ok {
		return
	}

	var payload bulkimport.CommitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON payload.")
		return
	}

	result, err := s.service.Commit(r.Context(), scope, &payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, result)
}

// handleExport streams the scope's catalog as a workbook download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	scope, ok := s.parseScope(w, r)
	if !ok {
		return
	}

	data, err := s.service.Export(r.Context(), scope)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeWorkbook(w, "bulk-import-export.xlsx", data)
}

// handleTemplate streams the starter workbook download.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.Template()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeWorkbook(w, "bulk-import-template.xlsx", data)
}

// parseScope resolves the target tenant scope from the organization_id
// query parameter. Absent means the global scope. A false return means the
// response has already been written.
func (s *Server) parseScope(w http.ResponseWriter, r *http.Request) (content.Scope, bool) {
	raw := r.URL.Query().Get("organization_id")
	if raw == "" {
		return content.GlobalScope(), true
	}
	orgID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || orgID <= 0 {
		respondMessage(w, http.StatusBadRequest, "organization_id must be a positive integer.")
		return content.Scope{}, false
	}
	return content.OrgScope(orgID), true
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", excelMediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
