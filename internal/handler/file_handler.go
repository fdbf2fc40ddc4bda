package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pdf-annotator/internal/domain"
	"pdf-annotator/internal/service"

	"github.com/gorilla/mux"
)

// FileHandler handles file record, document structure and export requests.
type FileHandler struct {
	files     domain.FileRepository
	fetcher   domain.DocumentFetcher
	inspector domain.PDFInspector
	exporter  *service.ExportService
	logger    domain.Logger
}

func NewFileHandler(
	files domain.FileRepository,
	fetcher domain.DocumentFetcher,
	inspector domain.PDFInspector,
	exporter *service.ExportService,
	logger domain.Logger,
) *FileHandler {
	return &FileHandler{
		files:     files,
		fetcher:   fetcher,
		inspector: inspector,
		exporter:  exporter,
		logger:    logger,
	}
}

// GetFile handles GET /files/{fileId}: the file record together with its
// persisted annotations.
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	fileID := mux.Vars(r)["fileId"]
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	record, err := h.files.GetByID(r.Context(), fileID, token)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("Failed to get file", err, "file_id", fileID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve file")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// GetFileInfo handles GET /files/{fileId}/info: page count and per-page
// native sizes of the underlying document.
func (h *FileHandler) GetFileInfo(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	fileID := mux.Vars(r)["fileId"]
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	record, err := h.files.GetByID(r.Context(), fileID, token)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("Failed to get file", err, "file_id", fileID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve file")
		return
	}

	data, err := h.fetcher.Fetch(r.Context(), record.FileURL)
	if err != nil {
		h.logger.Error("Failed to fetch document", err, "file_id", fileID)
		writeError(w, http.StatusBadGateway, "Failed to fetch document")
		return
	}

	info, err := h.inspector.Inspect(data)
	if err != nil {
		h.logger.Error("Failed to inspect document", err, "file_id", fileID)
		writeError(w, http.StatusUnprocessableEntity, "Failed to read document structure")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

type exportRequest struct {
	Annotations []domain.Annotation `json:"annotations"`
}

// ExportFile handles POST /files/{fileId}/export: bakes annotations into
// the document and streams the result back as a download.
//
// The client submits its current annotation set in the request body; with
// an empty body the file's persisted annotations are used instead.
func (h *FileHandler) ExportFile(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	fileID := mux.Vars(r)["fileId"]
	if fileID == "" {
		writeError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.files.GetByID(r.Context(), fileID, token)
	if err != nil {
		if errors.Is(err, domain.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		h.logger.Error("Failed to get file", err, "file_id", fileID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve file")
		return
	}

	annotations := req.Annotations
	if len(annotations) == 0 {
		annotations = make([]domain.Annotation, 0, len(record.Annotations))
		for _, api := range record.Annotations {
			annotations = append(annotations, domain.FromAPI(api))
		}
	}

	out, drawn, err := h.exporter.ExportWith(r.Context(), record.FileURL, annotations)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		h.logger.Error("Failed to export document", err, "file_id", fileID)
		writeError(w, http.StatusInternalServerError, "Failed to export document")
		return
	}

	h.logger.Info("Export download ready", "file_id", fileID, "annotations_drawn", drawn, "bytes", len(out))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="annotated-document.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
