package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pdf-annotator/internal/domain"
	"pdf-annotator/internal/service"

	"github.com/gorilla/mux"
)

// MockFileRepository for testing
type MockFileRepository struct {
	records map[string]*domain.FileRecord
}

func (m *MockFileRepository) GetByID(ctx context.Context, fileID string, token string) (*domain.FileRecord, error) {
	record, ok := m.records[fileID]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return record, nil
}

// MockFetcher for testing
type MockFetcher struct {
	data []byte
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return m.data, nil
}

// MockInspector for testing
type MockInspector struct {
	info *domain.PDFInfo
}

func (m *MockInspector) Inspect(data []byte) (*domain.PDFInfo, error) {
	return m.info, nil
}

// MockCompositor for testing
type MockCompositor struct {
	received []domain.Annotation
	output   []byte
	drawn    int
}

func (m *MockCompositor) Compose(data []byte, annotations []domain.Annotation) ([]byte, int, error) {
	m.received = annotations
	return m.output, m.drawn, nil
}

func newTestFileHandler(records map[string]*domain.FileRecord, compositor *MockCompositor) *FileHandler {
	logger := NewMockHandlerLogger()
	fetcher := &MockFetcher{data: []byte("%PDF-fake")}
	store := service.NewAnnotationStore(logger)
	exporter := service.NewExportService(store, nil, fetcher, compositor, logger)

	return NewFileHandler(
		&MockFileRepository{records: records},
		fetcher,
		&MockInspector{info: &domain.PDFInfo{PageCount: 1, Pages: []domain.PageSize{{Width: 612, Height: 792}}}},
		exporter,
		logger,
	)
}

func TestGetFile(t *testing.T) {
	records := map[string]*domain.FileRecord{
		"file-1": {
			FileID:  "file-1",
			Title:   "Quarterly report",
			FileURL: "https://example.com/doc.pdf",
			Annotations: []domain.ApiAnnotation{
				{ID: "srv-1", Type: domain.AnnotationHighlight, PageNumber: 1},
			},
		},
	}
	h := newTestFileHandler(records, &MockCompositor{})

	req := authedRequest("GET", "/api/v1/files/file-1", nil)
	req = mux.SetURLVars(req, map[string]string{"fileId": "file-1"})
	rec := httptest.NewRecorder()
	h.GetFile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var record domain.FileRecord
	if err := json.NewDecoder(rec.Body).Decode(&record); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if record.Title != "Quarterly report" || len(record.Annotations) != 1 {
		t.Errorf("Unexpected record %+v", record)
	}
}

func TestGetFile_NotFound(t *testing.T) {
	h := newTestFileHandler(map[string]*domain.FileRecord{}, &MockCompositor{})

	req := authedRequest("GET", "/api/v1/files/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"fileId": "missing"})
	rec := httptest.NewRecorder()
	h.GetFile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestGetFileInfo(t *testing.T) {
	records := map[string]*domain.FileRecord{
		"file-1": {FileID: "file-1", FileURL: "https://example.com/doc.pdf"},
	}
	h := newTestFileHandler(records, &MockCompositor{})

	req := authedRequest("GET", "/api/v1/files/file-1/info", nil)
	req = mux.SetURLVars(req, map[string]string{"fileId": "file-1"})
	rec := httptest.NewRecorder()
	h.GetFileInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var info domain.PDFInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if info.PageCount != 1 || info.Pages[0].Width != 612 {
		t.Errorf("Unexpected info %+v", info)
	}
}

func TestExportFile_WithSubmittedAnnotations(t *testing.T) {
	records := map[string]*domain.FileRecord{
		"file-1": {FileID: "file-1", FileURL: "https://example.com/doc.pdf"},
	}
	compositor := &MockCompositor{output: []byte("%PDF-annotated"), drawn: 1}
	h := newTestFileHandler(records, compositor)

	payload, _ := json.Marshal(exportRequest{
		Annotations: []domain.Annotation{
			{ID: "a1", Type: domain.AnnotationHighlight, PageNumber: 1, X: 10, Y: 20, Width: 100, Height: 25},
		},
	})
	req := authedRequest("POST", "/api/v1/files/file-1/export", payload)
	req = mux.SetURLVars(req, map[string]string{"fileId": "file-1"})
	rec := httptest.NewRecorder()
	h.ExportFile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected PDF content type, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="annotated-document.pdf"` {
		t.Errorf("Unexpected disposition %q", cd)
	}
	if rec.Body.String() != "%PDF-annotated" {
		t.Error("Expected composed bytes streamed back")
	}
	if len(compositor.received) != 1 || compositor.received[0].ID != "a1" {
		t.Error("Expected submitted annotations handed to the compositor")
	}
}

func TestExportFile_FallsBackToPersisted(t *testing.T) {
	records := map[string]*domain.FileRecord{
		"file-1": {
			FileID:  "file-1",
			FileURL: "https://example.com/doc.pdf",
			Annotations: []domain.ApiAnnotation{
				{ID: "srv-1", Type: domain.AnnotationUnderline, PageNumber: 1, Position: domain.Position{X: 5, Y: 6}},
			},
		},
	}
	compositor := &MockCompositor{output: []byte("out"), drawn: 1}
	h := newTestFileHandler(records, compositor)

	req := authedRequest("POST", "/api/v1/files/file-1/export", nil)
	req = mux.SetURLVars(req, map[string]string{"fileId": "file-1"})
	rec := httptest.NewRecorder()
	h.ExportFile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(compositor.received) != 1 || compositor.received[0].ID != "srv-1" {
		t.Fatalf("Expected persisted annotations used, got %+v", compositor.received)
	}
	// Missing stored size fills in the underline default.
	if compositor.received[0].Width != 200 || compositor.received[0].Height != 3 {
		t.Errorf("Expected default underline size 200x3, got %vx%v",
			compositor.received[0].Width, compositor.received[0].Height)
	}
}

func TestExportFile_FileNotFound(t *testing.T) {
	h := newTestFileHandler(map[string]*domain.FileRecord{}, &MockCompositor{})

	req := authedRequest("POST", "/api/v1/files/missing/export", nil)
	req = mux.SetURLVars(req, map[string]string{"fileId": "missing"})
	rec := httptest.NewRecorder()
	h.ExportFile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
