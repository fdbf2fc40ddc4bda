package domain

import "time"

// FileRecord is a stored document file together with its persisted
// annotations, as returned by the file endpoint.
type FileRecord struct {
	FileID      string          `json:"fileId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status,omitempty"`
	Size        int64           `json:"size,omitempty"`
	FileURL     string          `json:"fileUrl"`
	Annotations []ApiAnnotation `json:"annotations"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
