package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pdf-annotator/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// FileRepository implements the domain.FileRepository interface using Supabase.
type FileRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewFileRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.FileRepository {
	return &FileRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// GetByID fetches a file record together with its persisted annotations.
func (r *FileRepository) GetByID(ctx context.Context, fileID string, token string) (*domain.FileRecord, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("files").
		Select("*", "", false).
		Eq("id", fileID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrFileNotFound
	}

	record := mapToFileRecord(rows[0])

	annData, _, err := client.From("annotations").
		Select("*", "", false).
		Eq("file_id", fileID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list file annotations: %w", err)
	}

	var annRows []map[string]interface{}
	if err := json.Unmarshal(annData, &annRows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	record.Annotations = make([]domain.ApiAnnotation, 0, len(annRows))
	for _, row := range annRows {
		record.Annotations = append(record.Annotations, mapToApiAnnotation(row))
	}

	return record, nil
}

func mapToFileRecord(data map[string]interface{}) *domain.FileRecord {
	record := &domain.FileRecord{
		FileID:      getString(data, "id"),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		Status:      getString(data, "status"),
		FileURL:     getString(data, "file_url"),
	}

	if size, ok := getFloat(data, "size"); ok {
		record.Size = int64(size)
	}

	if createdAt := getString(data, "created_at"); createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			record.CreatedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			record.CreatedAt = t
		}
	}
	if updatedAt := getString(data, "updated_at"); updatedAt != "" {
		if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
			record.UpdatedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			record.UpdatedAt = t
		}
	}

	return record
}
