package service

import (
	"errors"
	"testing"

	"pdf-annotator/internal/domain"
)

// newTestMachine builds a machine over page 1 rendered at 1:1 scale, so
// screen pixels and document units coincide.
func newTestMachine(t *testing.T) (*DrawingMachine, *AnnotationStore) {
	t.Helper()
	logger := NewMockLogger()
	tracker := NewViewportTracker(logger)
	tracker.RecordNativeSize(1, 612, 792, 0)
	tracker.RecordScreenBox(1, domain.ScreenBox{Width: 612, Height: 792})

	store := NewAnnotationStore(logger)
	machine := NewDrawingMachine(NewCoordinateMapper(tracker), store, logger)
	return machine, store
}

func TestDrawingMachine_IgnoresGestureWithoutTool(t *testing.T) {
	machine, store := newTestMachine(t)

	machine.PointerDown(1, 100, 100)
	machine.PointerMove(200, 200)
	machine.PointerUp()

	if machine.State() != StateIdle {
		t.Error("Expected machine to stay idle without a tool")
	}
	if store.Len() != 0 {
		t.Errorf("Expected no annotations, got %d", store.Len())
	}
}

func TestDrawingMachine_IgnoresGestureWithoutPageMetrics(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationHighlight)

	// Page 2 has no recorded metrics.
	machine.PointerDown(2, 100, 100)

	if machine.State() != StateIdle {
		t.Error("Expected gesture on unmeasured page to be ignored")
	}
	if store.Len() != 0 {
		t.Errorf("Expected no annotations, got %d", store.Len())
	}
}

func TestDrawingMachine_CommitsDrag(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationHighlight)
	machine.SetColor("rgba(100, 150, 200, 0.3)")

	machine.PointerDown(1, 100, 100)
	if machine.State() != StateDrawing {
		t.Fatal("Expected StateDrawing after pointer down")
	}
	machine.PointerMove(150, 120)
	machine.PointerMove(300, 150)
	machine.PointerUp()

	if machine.State() != StateIdle {
		t.Error("Expected StateIdle after pointer up")
	}
	if store.Len() != 1 {
		t.Fatalf("Expected exactly 1 committed annotation, got %d", store.Len())
	}

	ann := store.Snapshot()[0]
	if ann.X != 100 || ann.Y != 100 || ann.Width != 200 || ann.Height != 50 {
		t.Errorf("Expected geometry (100, 100, 200, 50), got %+v", ann)
	}
	if ann.Color != "rgba(100, 150, 200, 0.3)" {
		t.Errorf("Expected selected color, got %q", ann.Color)
	}
	if ann.ID == "" {
		t.Error("Expected a local ID")
	}
	if store.IsPersisted(ann.ID) {
		t.Error("Expected new annotation to start pending")
	}
}

func TestDrawingMachine_DiscardsSubThresholdDrag(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationHighlight)

	machine.PointerDown(1, 100, 100)
	machine.PointerMove(104, 104)
	machine.PointerUp()

	if store.Len() != 0 {
		t.Errorf("Expected accidental click discarded, got %d annotations", store.Len())
	}

	// One axis below threshold is still a discard.
	machine.PointerDown(1, 100, 100)
	machine.PointerMove(200, 103)
	machine.PointerUp()

	if store.Len() != 0 {
		t.Errorf("Expected drag thin in one axis discarded, got %d annotations", store.Len())
	}
}

func TestDrawingMachine_CommitsReverseDragWithSignedExtents(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationHighlight)

	machine.PointerDown(1, 300, 200)
	machine.PointerMove(100, 150)
	machine.PointerUp()

	if store.Len() != 1 {
		t.Fatalf("Expected 1 annotation, got %d", store.Len())
	}
	ann := store.Snapshot()[0]
	// The anchor never moves; extents stay signed until export.
	if ann.X != 300 || ann.Y != 200 || ann.Width != -200 || ann.Height != -50 {
		t.Errorf("Expected anchored signed geometry (300, 200, -200, -50), got %+v", ann)
	}
}

func TestDrawingMachine_GlobalPointerUpRecoversStuckDrag(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationUnderline)

	machine.PointerDown(1, 100, 100)
	machine.PointerMove(250, 130)
	// Release happened over a sibling element; no PointerUp arrives.
	machine.GlobalPointerUp()

	if machine.State() != StateIdle {
		t.Error("Expected global release to end the drag")
	}
	if store.Len() != 1 {
		t.Errorf("Expected the drag committed, got %d annotations", store.Len())
	}

	// Idle machine ignores further global releases.
	machine.GlobalPointerUp()
	if store.Len() != 1 {
		t.Error("Expected no duplicate commit")
	}
}

func TestDrawingMachine_ToolSwitchDiscardsDrag(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationHighlight)

	machine.PointerDown(1, 100, 100)
	machine.PointerMove(300, 200)
	machine.SetTool(domain.AnnotationUnderline)

	if machine.State() != StateIdle {
		t.Error("Expected tool switch to abort the drag")
	}
	if store.Len() != 0 {
		t.Errorf("Expected nothing committed, got %d", store.Len())
	}
}

func TestDrawingMachine_SignatureModalFlow(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationSignature)

	modal := machine.PointerDown(1, 50, 600)
	if modal == nil {
		t.Fatal("Expected a modal request for the signature tool")
	}
	if modal.Type != domain.AnnotationSignature || modal.X != 50 || modal.Y != 600 {
		t.Errorf("Unexpected modal request %+v", modal)
	}
	if machine.State() != StateModalPending {
		t.Error("Expected StateModalPending")
	}

	// Zero size falls back to the default stamp.
	if err := machine.CompleteSignature("data:image/png;base64,AAAA", 0, 0); err != nil {
		t.Fatalf("Expected signature to complete, got %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("Expected 1 annotation, got %d", store.Len())
	}
	ann := store.Snapshot()[0]
	if ann.Width != 200 || ann.Height != 100 {
		t.Errorf("Expected default stamp size 200x100, got %vx%v", ann.Width, ann.Height)
	}
	if machine.State() != StateIdle {
		t.Error("Expected StateIdle after completion")
	}
}

func TestDrawingMachine_SignatureRequiresImage(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationSignature)
	machine.PointerDown(1, 50, 600)

	err := machine.CompleteSignature("", 100, 50)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Expected validation error for missing image, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("Expected nothing committed")
	}
}

func TestDrawingMachine_CompleteWithoutModal(t *testing.T) {
	machine, _ := newTestMachine(t)

	if err := machine.CompleteSignature("data:image/png;base64,AAAA", 100, 50); !errors.Is(err, domain.ErrNoActiveGesture) {
		t.Errorf("Expected ErrNoActiveGesture, got %v", err)
	}
	if err := machine.CompleteComment("hello"); !errors.Is(err, domain.ErrNoActiveGesture) {
		t.Errorf("Expected ErrNoActiveGesture, got %v", err)
	}
}

func TestDrawingMachine_CommentModalFlow(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationComment)
	machine.SetUser(&domain.CreatedBy{ID: "user-123", FirstName: "Ada", LastName: "Lovelace"})

	modal := machine.PointerDown(1, 80, 90)
	if modal == nil || modal.Type != domain.AnnotationComment {
		t.Fatalf("Expected comment modal request, got %+v", modal)
	}

	if err := machine.CompleteComment("needs review"); err != nil {
		t.Fatalf("Expected comment to complete, got %v", err)
	}

	ann := store.Snapshot()[0]
	if ann.Content != "needs review" {
		t.Errorf("Expected content stored, got %q", ann.Content)
	}
	if ann.Width != 150 || ann.Height != 30 {
		t.Errorf("Expected default comment size 150x30, got %vx%v", ann.Width, ann.Height)
	}
	if ann.CreatedBy == nil || ann.CreatedBy.FirstName != "Ada" {
		t.Error("Expected attribution carried onto the annotation")
	}
}

func TestDrawingMachine_CancelAbandonsModal(t *testing.T) {
	machine, store := newTestMachine(t)
	machine.SetTool(domain.AnnotationComment)
	machine.PointerDown(1, 80, 90)

	machine.Cancel()

	if machine.State() != StateIdle {
		t.Error("Expected StateIdle after cancel")
	}
	if err := machine.CompleteComment("late"); !errors.Is(err, domain.ErrNoActiveGesture) {
		t.Errorf("Expected completion after cancel to fail, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("Expected nothing committed")
	}
}
