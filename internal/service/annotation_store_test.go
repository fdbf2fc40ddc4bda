package service

import (
	"testing"

	"pdf-annotator/internal/domain"
)

func TestAnnotationStore_CreateNeverMerges(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())

	ann := domain.Annotation{ID: "a1", Type: domain.AnnotationHighlight, PageNumber: 1, X: 10, Y: 10, Width: 100, Height: 20}
	dup := ann
	dup.ID = "a2"

	store.Create(ann)
	store.Create(dup)

	if store.Len() != 2 {
		t.Errorf("Expected 2 annotations with identical geometry, got %d", store.Len())
	}
}

func TestAnnotationStore_UnsyncedLifecycle(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())

	store.Create(domain.Annotation{ID: "a1", Type: domain.AnnotationHighlight})
	store.Create(domain.Annotation{ID: "a2", Type: domain.AnnotationUnderline})

	pending := store.Unsynced()
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending, got %d", len(pending))
	}

	// Reading twice without a confirmation yields the same batch.
	again := store.Unsynced()
	if len(again) != 2 || again[0].ID != pending[0].ID {
		t.Error("Expected identical batch on repeated reads")
	}

	store.MarkPersisted([]string{"a1"})
	pending = store.Unsynced()
	if len(pending) != 1 || pending[0].ID != "a2" {
		t.Errorf("Expected only a2 pending, got %+v", pending)
	}
}

func TestAnnotationStore_AddBatchMarksPersisted(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())

	store.AddBatch([]domain.Annotation{
		{ID: "srv-1", Type: domain.AnnotationHighlight},
		{ID: "srv-2", Type: domain.AnnotationNote},
	})

	if len(store.Unsynced()) != 0 {
		t.Error("Expected loaded annotations to start persisted")
	}
	if !store.IsPersisted("srv-1") || !store.IsPersisted("srv-2") {
		t.Error("Expected both loaded IDs marked persisted")
	}
}

func TestAnnotationStore_UndoLast(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())

	store.Create(domain.Annotation{ID: "a1"})
	store.Create(domain.Annotation{ID: "a2"})
	store.MarkPersisted([]string{"a2"})

	store.UndoLast()
	if store.Len() != 1 {
		t.Fatalf("Expected 1 annotation after undo, got %d", store.Len())
	}
	if store.IsPersisted("a2") {
		t.Error("Expected undone annotation removed from saved set")
	}

	store.UndoLast()
	store.UndoLast() // undo on empty store is a no-op
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
}

func TestAnnotationStore_Remove(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())
	store.Create(domain.Annotation{ID: "a1"})
	store.Create(domain.Annotation{ID: "a2"})
	store.MarkPersisted([]string{"a1"})

	store.Remove("a1")

	if store.Len() != 1 {
		t.Fatalf("Expected 1 annotation, got %d", store.Len())
	}
	if store.IsPersisted("a1") {
		t.Error("Expected removed ID purged from saved set")
	}
}

func TestAnnotationStore_ReplaceID(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())
	store.Create(domain.Annotation{ID: "ann-local"})
	store.MarkPersisted([]string{"ann-local"})

	store.ReplaceID("ann-local", "srv-42")

	if store.IsPersisted("ann-local") {
		t.Error("Expected local ID dropped from saved set")
	}
	if !store.IsPersisted("srv-42") {
		t.Error("Expected server ID to carry the persisted marker")
	}
	if store.Snapshot()[0].ID != "srv-42" {
		t.Error("Expected annotation to carry the server ID")
	}
}

func TestAnnotationStore_SnapshotIsIndependent(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())
	store.Create(domain.Annotation{ID: "a1", X: 10})

	snap := store.Snapshot()
	snap[0].X = 999

	if store.Snapshot()[0].X != 10 {
		t.Error("Expected snapshot mutation not to affect the store")
	}
}

func TestAnnotationStore_Clear(t *testing.T) {
	store := NewAnnotationStore(NewMockLogger())
	store.Create(domain.Annotation{ID: "a1"})
	store.MarkPersisted([]string{"a1"})

	store.Clear()

	if store.Len() != 0 || store.IsPersisted("a1") {
		t.Error("Expected clear to wipe annotations and saved set")
	}
}
