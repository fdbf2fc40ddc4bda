package service

import (
	"context"
	"fmt"

	"pdf-annotator/internal/domain"
)

// SyncService reconciles the annotation store against the remote
// collaborator: it computes the minimal pending batch to send, and marks a
// batch persisted once the write is acknowledged.
type SyncService struct {
	store  *AnnotationStore
	repo   domain.AnnotationRepository
	files  domain.FileRepository
	logger domain.Logger
}

func NewSyncService(store *AnnotationStore, repo domain.AnnotationRepository, files domain.FileRepository, logger domain.Logger) *SyncService {
	return &SyncService{
		store:  store,
		repo:   repo,
		files:  files,
		logger: logger,
	}
}

// ComputeUnsyncedBatch returns the annotations not yet acknowledged by the
// remote collaborator. Reading has no side effects; two consecutive calls
// with no confirmation in between return identical batches.
func (s *SyncService) ComputeUnsyncedBatch() []domain.Annotation {
	return s.store.Unsynced()
}

// Save sends the pending batch to the remote collaborator. An empty batch
// yields domain.ErrNothingToSave, which is a no-op signal rather than a
// failure. On a failed write the pending set is left untouched so a retry
// resubmits the same batch; only an acknowledged write confirms it.
//
// The repository echoes the stored annotations in submission order, so
// confirmation matches by position: each local ephemeral ID is swapped for
// the server-issued one without relying on structural equality.
func (s *SyncService) Save(ctx context.Context, fileID, token string) (int, error) {
	batch := s.store.Unsynced()
	if len(batch) == 0 {
		return 0, domain.ErrNothingToSave
	}

	payload := make([]domain.ApiAnnotation, len(batch))
	for i, ann := range batch {
		payload[i] = domain.ToAPI(fileID, ann)
	}

	saved, err := s.repo.CreateBatch(ctx, payload, token)
	if err != nil {
		return 0, fmt.Errorf("failed to save annotations: %w", err)
	}

	ids := make([]string, len(batch))
	for i, ann := range batch {
		ids[i] = ann.ID
	}
	s.store.MarkPersisted(ids)

	for i := range batch {
		if i < len(saved) && saved[i].ID != "" {
			s.store.ReplaceID(batch[i].ID, saved[i].ID)
		}
	}

	s.logger.Info("Annotations saved", "file_id", fileID, "count", len(batch))
	return len(batch), nil
}

// LoadPersisted fetches the file record and feeds its stored annotations
// into the store, applying type default sizes where the server omitted
// width or height. Loaded annotations are marked persisted immediately.
func (s *SyncService) LoadPersisted(ctx context.Context, fileID, token string) (*domain.FileRecord, int, error) {
	record, err := s.files.GetByID(ctx, fileID, token)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load file %s: %w", fileID, err)
	}

	annotations := make([]domain.Annotation, 0, len(record.Annotations))
	for _, api := range record.Annotations {
		annotations = append(annotations, domain.FromAPI(api))
	}
	s.store.AddBatch(annotations)

	s.logger.Info("Annotations loaded", "file_id", fileID, "count", len(annotations))
	return record, len(annotations), nil
}
