package service

import (
	"context"
	"fmt"

	"pdf-annotator/internal/domain"
)

// ExportService produces the annotated document: it fetches the original
// bytes, snapshots the annotation set, and hands both to the compositor.
type ExportService struct {
	store      *AnnotationStore
	machine    *DrawingMachine
	fetcher    domain.DocumentFetcher
	compositor domain.Compositor
	logger     domain.Logger
}

func NewExportService(
	store *AnnotationStore,
	machine *DrawingMachine,
	fetcher domain.DocumentFetcher,
	compositor domain.Compositor,
	logger domain.Logger,
) *ExportService {
	return &ExportService{
		store:      store,
		machine:    machine,
		fetcher:    fetcher,
		compositor: compositor,
		logger:     logger,
	}
}

// ExportCurrent bakes the store's annotations into the document at the
// given URL. Export is refused while a drag gesture is active; otherwise
// the store is snapshotted before the fetch so concurrent mutation cannot
// tear the batch.
func (s *ExportService) ExportCurrent(ctx context.Context, fileURL string) ([]byte, int, error) {
	if s.machine != nil && s.machine.State() == StateDrawing {
		return nil, 0, &domain.ValidationError{Message: "cannot export while drawing"}
	}
	return s.ExportWith(ctx, fileURL, s.store.Snapshot())
}

// ExportWith bakes an explicit annotation set into the document at the
// given URL. Used by the stateless HTTP path, where the client submits its
// current annotations with the export request.
func (s *ExportService) ExportWith(ctx context.Context, fileURL string, annotations []domain.Annotation) ([]byte, int, error) {
	data, err := s.fetcher.Fetch(ctx, fileURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch document: %w", err)
	}

	out, drawn, err := s.compositor.Compose(data, annotations)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compose annotated document: %w", err)
	}

	s.logger.Info("Document exported", "url", fileURL, "annotations_drawn", drawn)
	return out, drawn, nil
}
