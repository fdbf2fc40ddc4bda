package handler

import (
	"encoding/json"
	"net/http"

	"pdf-annotator/internal/domain"

	"github.com/gorilla/mux"
)

// AnnotationHandler handles annotation persistence HTTP requests.
type AnnotationHandler struct {
	annotations domain.AnnotationRepository
	logger      domain.Logger
}

func NewAnnotationHandler(annotations domain.AnnotationRepository, logger domain.Logger) *AnnotationHandler {
	return &AnnotationHandler{
		annotations: annotations,
		logger:      logger,
	}
}

type saveAnnotationsRequest struct {
	FileID      string                 `json:"fileId"`
	Annotations []domain.ApiAnnotation `json:"annotations"`
}

type saveAnnotationsResponse struct {
	Saved       int                    `json:"saved"`
	Annotations []domain.ApiAnnotation `json:"annotations,omitempty"`
	Message     string                 `json:"message,omitempty"`
}

// SaveAnnotations handles POST /annotations. The batch is stored in one
// request and echoed back in submission order with server-issued IDs, so
// the client can swap its ephemeral IDs positionally.
func (h *AnnotationHandler) SaveAnnotations(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	var req saveAnnotationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "fileId is required")
		return
	}
	if len(req.Annotations) == 0 {
		// A distinct no-op, not an error: the client treats this as
		// "already saved".
		writeJSON(w, http.StatusOK, saveAnnotationsResponse{Message: "No annotations to save"})
		return
	}

	for i := range req.Annotations {
		req.Annotations[i].FileID = req.FileID
	}

	saved, err := h.annotations.CreateBatch(r.Context(), req.Annotations, token)
	if err != nil {
		h.logger.Error("Failed to save annotations", err, "file_id", req.FileID, "count", len(req.Annotations))
		writeError(w, http.StatusInternalServerError, "Failed to save annotations")
		return
	}

	writeJSON(w, http.StatusCreated, saveAnnotationsResponse{Saved: len(saved), Annotations: saved})
}

// ListAnnotations handles GET /files/{fileId}/annotations
func (h *AnnotationHandler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
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

	annotations, err := h.annotations.ListByFile(r.Context(), fileID, token)
	if err != nil {
		h.logger.Error("Failed to list annotations", err, "file_id", fileID)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve annotations")
		return
	}
	if annotations == nil {
		annotations = make([]domain.ApiAnnotation, 0)
	}
	writeJSON(w, http.StatusOK, annotations)
}

// DeleteAnnotation handles DELETE /annotations/{id}
func (h *AnnotationHandler) DeleteAnnotation(w http.ResponseWriter, r *http.Request) {
	token, ok := GetTokenFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Token not found in context")
		return
	}

	annotationID := mux.Vars(r)["id"]
	if annotationID == "" {
		writeError(w, http.StatusBadRequest, "Annotation ID is required")
		return
	}

	if err := h.annotations.Delete(r.Context(), annotationID, token); err != nil {
		h.logger.Error("Failed to delete annotation", err, "annotation_id", annotationID)
		writeError(w, http.StatusInternalServerError, "Failed to delete annotation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
