package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"pdf-annotator/internal/domain"
	apperrors "pdf-annotator/pkg/errors"
)

// DocumentService fetches document bytes from their source URL. A fetch
// failure is a blocking error surfaced to the caller; no partial rendering
// is attempted downstream.
type DocumentService struct {
	client      *http.Client
	maxFileSize int64
	logger      domain.Logger
}

func NewDocumentService(config domain.Config, logger domain.Logger) *DocumentService {
	return &DocumentService{
		client:      http.DefaultClient,
		maxFileSize: config.GetMaxFileSize(),
		logger:      logger,
	}
}

// Fetch downloads the document at url, bounded by the configured maximum
// file size.
func (s *DocumentService) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid document URL", err.Error())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to fetch document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("document fetch returned status %d", resp.StatusCode), nil)
	}

	limit := s.maxFileSize
	if limit <= 0 {
		limit = 50 * 1024 * 1024
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read document body", err)
	}
	if int64(len(data)) > limit {
		return nil, apperrors.NewValidationError("document exceeds maximum file size")
	}

	s.logger.Debug("Document fetched", "url", url, "bytes", len(data))
	return data, nil
}
