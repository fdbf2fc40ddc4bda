package domain

import "context"

// AnnotationRepository defines persistence operations for annotations.
// Saves are batched; the returned slice echoes the stored annotations in
// submission order, carrying the server-issued IDs.
type AnnotationRepository interface {
	CreateBatch(ctx context.Context, annotations []ApiAnnotation, token string) ([]ApiAnnotation, error)
	ListByFile(ctx context.Context, fileID string, token string) ([]ApiAnnotation, error)
	Delete(ctx context.Context, annotationID string, token string) error
}

// FileRepository defines read operations for file records.
type FileRepository interface {
	GetByID(ctx context.Context, fileID string, token string) (*FileRecord, error)
}

// DocumentFetcher retrieves the raw bytes of a document from its source.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// PDFInfo describes the structure of a loaded document: how many pages it
// has and each page's native, unscaled size.
type PDFInfo struct {
	PageCount int        `json:"pageCount"`
	Pages     []PageSize `json:"pages"`
}

// PDFInspector extracts structural information from raw PDF bytes.
type PDFInspector interface {
	Inspect(data []byte) (*PDFInfo, error)
}

// Compositor bakes annotations into a document. It returns the modified
// document bytes and the number of annotations actually drawn (signatures
// that fail to embed are skipped, not fatal).
type Compositor interface {
	Compose(data []byte, annotations []Annotation) ([]byte, int, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetSupabaseURL() string
	GetSupabaseKey() string
}
