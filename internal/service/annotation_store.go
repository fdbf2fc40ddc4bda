package service

import (
	"pdf-annotator/internal/domain"
)

// AnnotationStore owns the canonical annotation collection for the loaded
// document, in document units, and tracks which entries the remote
// collaborator has acknowledged. It is the single mutable shared resource
// of the engine; every mutation goes through its methods.
//
// Create always appends and never merges: two annotations with identical
// geometry are legitimate (two users highlighting the same passage), so the
// store does not deduplicate.
type AnnotationStore struct {
	all      []domain.Annotation
	savedIDs map[string]struct{}
	logger   domain.Logger
}

func NewAnnotationStore(logger domain.Logger) *AnnotationStore {
	return &AnnotationStore{
		savedIDs: make(map[string]struct{}),
		logger:   logger,
	}
}

// Create appends a newly drawn annotation. It starts out pending.
func (s *AnnotationStore) Create(ann domain.Annotation) {
	s.all = append(s.all, ann)
}

// AddBatch appends previously persisted annotations (the load path) and
// marks them saved immediately.
func (s *AnnotationStore) AddBatch(annotations []domain.Annotation) {
	for _, ann := range annotations {
		s.all = append(s.all, ann)
		if ann.ID != "" {
			s.savedIDs[ann.ID] = struct{}{}
		}
	}
}

// UndoLast pops the most recently created annotation regardless of whether
// it has been persisted. This is a simple LIFO undo, not an undo tree.
func (s *AnnotationStore) UndoLast() {
	if len(s.all) == 0 {
		return
	}
	last := s.all[len(s.all)-1]
	s.all = s.all[:len(s.all)-1]
	delete(s.savedIDs, last.ID)
}

// Remove deletes an annotation by ID, purging it from the saved set too.
func (s *AnnotationStore) Remove(id string) {
	for i, ann := range s.all {
		if ann.ID == id {
			s.all = append(s.all[:i], s.all[i+1:]...)
			delete(s.savedIDs, id)
			return
		}
	}
}

// Clear wipes the collection and the saved set, e.g. when navigating to a
// different document.
func (s *AnnotationStore) Clear() {
	s.all = nil
	s.savedIDs = make(map[string]struct{})
}

// MarkPersisted records a batch acknowledgement from the remote
// collaborator. Call only after a successful write; a failed save must
// leave the pending set untouched so a retry recomputes the same batch.
func (s *AnnotationStore) MarkPersisted(ids []string) {
	for _, id := range ids {
		if id != "" {
			s.savedIDs[id] = struct{}{}
		}
	}
}

// ReplaceID swaps a local ephemeral ID for the server-issued one returned
// by a save acknowledgement, preserving the persisted marker.
func (s *AnnotationStore) ReplaceID(localID, serverID string) {
	if localID == "" || serverID == "" || localID == serverID {
		return
	}
	for i := range s.all {
		if s.all[i].ID == localID {
			s.all[i].ID = serverID
			if _, ok := s.savedIDs[localID]; ok {
				delete(s.savedIDs, localID)
				s.savedIDs[serverID] = struct{}{}
			}
			return
		}
	}
}

// Unsynced returns the annotations not yet acknowledged by the remote
// collaborator, in creation order. The read has no side effects: calling
// it twice without an intervening MarkPersisted yields the same batch.
func (s *AnnotationStore) Unsynced() []domain.Annotation {
	var pending []domain.Annotation
	for _, ann := range s.all {
		if _, saved := s.savedIDs[ann.ID]; !saved {
			pending = append(pending, ann)
		}
	}
	return pending
}

// Snapshot returns a copy of the full collection, safe to hand to an async
// operation (export, save) while the UI may keep mutating the store.
func (s *AnnotationStore) Snapshot() []domain.Annotation {
	out := make([]domain.Annotation, len(s.all))
	copy(out, s.all)
	return out
}

// Len reports the number of annotations currently held.
func (s *AnnotationStore) Len() int {
	return len(s.all)
}

// IsPersisted reports whether the given annotation ID has been acknowledged.
func (s *AnnotationStore) IsPersisted(id string) bool {
	_, ok := s.savedIDs[id]
	return ok
}
