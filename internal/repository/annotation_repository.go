package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pdf-annotator/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// AnnotationRepository implements the domain.AnnotationRepository interface using Supabase.
type AnnotationRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewAnnotationRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.AnnotationRepository {
	return &AnnotationRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// CreateBatch inserts the annotations in one request and returns the stored
// rows in submission order, carrying their server-issued IDs.
func (r *AnnotationRepository) CreateBatch(ctx context.Context, annotations []domain.ApiAnnotation, token string) ([]domain.ApiAnnotation, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	batch := make([]map[string]interface{}, 0, len(annotations))
	for _, ann := range annotations {
		row := map[string]interface{}{
			"file_id":     ann.FileID,
			"page_number": ann.PageNumber,
			"type":        string(ann.Type),
			"x":           ann.Position.X,
			"y":           ann.Position.Y,
		}
		if ann.Width != nil {
			row["width"] = *ann.Width
		}
		if ann.Height != nil {
			row["height"] = *ann.Height
		}
		if ann.Color != "" {
			row["color"] = ann.Color
		}
		if ann.Content != "" {
			row["content"] = ann.Content
		}
		if ann.ImageData != "" {
			row["image_data"] = ann.ImageData
		}
		batch = append(batch, row)
	}

	// Request "representation" so PostgREST returns the inserted rows.
	data, _, err := client.From("annotations").
		Insert(batch, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create annotations: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) != len(annotations) {
		return nil, fmt.Errorf("failed to create annotations: expected %d rows, got %d", len(annotations), len(rows))
	}

	out := make([]domain.ApiAnnotation, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToApiAnnotation(row))
	}
	return out, nil
}

// ListByFile returns a file's annotations oldest first, matching the order
// they were submitted in.
func (r *AnnotationRepository) ListByFile(ctx context.Context, fileID string, token string) ([]domain.ApiAnnotation, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("annotations").
		Select("*", "", false).
		Eq("file_id", fileID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := make([]domain.ApiAnnotation, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToApiAnnotation(row))
	}
	return out, nil
}

func (r *AnnotationRepository) Delete(ctx context.Context, annotationID string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err = client.From("annotations").
		Delete("", "").
		Eq("id", annotationID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	return nil
}

func mapToApiAnnotation(data map[string]interface{}) domain.ApiAnnotation {
	ann := domain.ApiAnnotation{
		ID:        getString(data, "id"),
		FileID:    getString(data, "file_id"),
		Type:      domain.AnnotationType(getString(data, "type")),
		Color:     getString(data, "color"),
		Content:   getString(data, "content"),
		ImageData: getString(data, "image_data"),
	}

	if pn, ok := getFloat(data, "page_number"); ok {
		ann.PageNumber = int(pn)
	}
	if x, ok := getFloat(data, "x"); ok {
		ann.Position.X = x
	}
	if y, ok := getFloat(data, "y"); ok {
		ann.Position.Y = y
	}
	if w, ok := getFloat(data, "width"); ok {
		ann.Width = &w
	}
	if h, ok := getFloat(data, "height"); ok {
		ann.Height = &h
	}

	return ann
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(data map[string]interface{}, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
