package service

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"pdf-annotator/internal/domain"
)

// DrawingState is the gesture state of the drawing machine.
type DrawingState int

const (
	// StateIdle means no gesture is in progress.
	StateIdle DrawingState = iota
	// StateDrawing means a drag gesture is extending an annotation.
	StateDrawing
	// StateModalPending means a signature or comment anchor was placed and
	// the external modal collaborator owns the interaction until it
	// confirms or cancels.
	StateModalPending
)

// Default stamp size used when the signature modal does not report one.
const (
	defaultSignatureWidth  = 200.0
	defaultSignatureHeight = 100.0

	defaultCommentWidth  = 150.0
	defaultCommentHeight = 30.0
)

// ModalRequest asks the hosting application to open a modal (signature pad
// or comment box) anchored at a document-space point.
type ModalRequest struct {
	Type       domain.AnnotationType
	PageNumber int
	X          float64
	Y          float64
}

// DrawingMachine turns pointer events into finished annotations. Mouse and
// touch input share this one machine; the caller translates touch triplets
// into the same pointer events so the two input paths cannot diverge.
//
// Every transition completes synchronously - the machine never suspends -
// so drag feedback stays responsive. Pointer coordinates are screen pixels
// relative to the page box origin; all conversion to document units goes
// through the coordinate mapper.
type DrawingMachine struct {
	state  DrawingState
	tool   domain.AnnotationType
	color  string
	user   *domain.CreatedBy
	logger domain.Logger

	mapper *CoordinateMapper
	store  *AnnotationStore

	current *domain.Annotation
	modal   *ModalRequest
}

func NewDrawingMachine(mapper *CoordinateMapper, store *AnnotationStore, logger domain.Logger) *DrawingMachine {
	return &DrawingMachine{
		state:  StateIdle,
		color:  domain.DefaultColor,
		mapper: mapper,
		store:  store,
		logger: logger,
	}
}

// State returns the current gesture state.
func (d *DrawingMachine) State() DrawingState {
	return d.state
}

// Current returns the in-progress annotation for overlay feedback, or nil.
func (d *DrawingMachine) Current() *domain.Annotation {
	return d.current
}

// SetTool selects the active tool. Switching tools mid-drag discards the
// in-progress annotation without committing.
func (d *DrawingMachine) SetTool(tool domain.AnnotationType) {
	if d.state == StateDrawing {
		d.discard()
	}
	d.tool = tool
}

// ClearTool deselects the active tool, discarding any in-progress gesture.
func (d *DrawingMachine) ClearTool() {
	if d.state == StateDrawing {
		d.discard()
	}
	d.tool = ""
}

// SetColor selects the color applied to annotations created from now on.
func (d *DrawingMachine) SetColor(color string) {
	d.color = color
}

// SetUser records the attribution attached to new annotations.
func (d *DrawingMachine) SetUser(user *domain.CreatedBy) {
	d.user = user
}

// PointerDown starts a gesture at a screen point relative to the page box
// origin. With no active tool, or for a page whose metrics are not yet
// known, the gesture is silently ignored - the latter is a transient race
// with page load, not an error.
//
// For signature and comment tools no drag follows: the machine moves to
// StateModalPending and returns a ModalRequest for the hosting application
// to open the matching modal.
func (d *DrawingMachine) PointerDown(pageNumber int, screenX, screenY float64) *ModalRequest {
	if d.state != StateIdle || d.tool == "" {
		return nil
	}

	docX, docY, err := d.mapper.ScreenDeltaToDocument(pageNumber, screenX, screenY)
	if err != nil {
		d.logger.Debug("Gesture ignored, page metrics missing", "page", pageNumber)
		return nil
	}

	if d.tool == domain.AnnotationSignature || d.tool == domain.AnnotationComment {
		d.state = StateModalPending
		d.modal = &ModalRequest{Type: d.tool, PageNumber: pageNumber, X: docX, Y: docY}
		return d.modal
	}

	d.state = StateDrawing
	d.current = &domain.Annotation{
		ID:         localAnnotationID(),
		Type:       d.tool,
		PageNumber: pageNumber,
		X:          docX,
		Y:          docY,
		Color:      d.color,
		CreatedBy:  d.user,
	}
	return nil
}

// PointerMove extends the current drag. The anchor recorded at
// PointerDown never moves; width and height are recomputed from it, so
// re-applying moves in receipt order is self-correcting.
func (d *DrawingMachine) PointerMove(screenX, screenY float64) {
	if d.state != StateDrawing || d.current == nil {
		return
	}

	docX, docY, err := d.mapper.ScreenDeltaToDocument(d.current.PageNumber, screenX, screenY)
	if err != nil {
		return
	}

	d.current.Width = docX - d.current.X
	d.current.Height = docY - d.current.Y
}

// PointerUp finishes the drag: the annotation is committed when both
// extents reach the minimum drag size in document units, otherwise the
// gesture is discarded as an accidental click.
func (d *DrawingMachine) PointerUp() {
	d.finish()
}

// PointerLeave finishes the drag exactly like PointerUp.
func (d *DrawingMachine) PointerLeave() {
	d.finish()
}

// GlobalPointerUp is the stuck-drag recovery rule: a drag released over a
// sibling element or outside the viewport never delivers PointerUp to the
// page, so the hosting application listens for release globally and routes
// it here. Without this the machine would stay in StateDrawing forever.
func (d *DrawingMachine) GlobalPointerUp() {
	if d.state == StateDrawing {
		d.finish()
	}
}

// Cancel abandons the current gesture or pending modal with no commit.
func (d *DrawingMachine) Cancel() {
	d.discard()
}

// CompleteSignature resolves a pending signature modal with the drawn
// stamp. Width and height are the placed stamp's positive document-unit
// size; zero values fall back to the default stamp size.
func (d *DrawingMachine) CompleteSignature(imageData string, width, height float64) error {
	if d.state != StateModalPending || d.modal == nil || d.modal.Type != domain.AnnotationSignature {
		return domain.ErrNoActiveGesture
	}
	if imageData == "" {
		return &domain.ValidationError{Field: "imageData", Message: "signature image is required"}
	}
	if width <= 0 {
		width = defaultSignatureWidth
	}
	if height <= 0 {
		height = defaultSignatureHeight
	}

	d.store.Create(domain.Annotation{
		ID:         localAnnotationID(),
		Type:       domain.AnnotationSignature,
		PageNumber: d.modal.PageNumber,
		X:          d.modal.X,
		Y:          d.modal.Y,
		Width:      width,
		Height:     height,
		Color:      d.color,
		ImageData:  imageData,
		CreatedBy:  d.user,
	})
	d.discard()
	return nil
}

// CompleteComment resolves a pending comment modal with the entered text.
func (d *DrawingMachine) CompleteComment(text string) error {
	if d.state != StateModalPending || d.modal == nil || d.modal.Type != domain.AnnotationComment {
		return domain.ErrNoActiveGesture
	}
	if text == "" {
		return &domain.ValidationError{Field: "content", Message: "comment text is required"}
	}

	d.store.Create(domain.Annotation{
		ID:         localAnnotationID(),
		Type:       domain.AnnotationComment,
		PageNumber: d.modal.PageNumber,
		X:          d.modal.X,
		Y:          d.modal.Y,
		Width:      defaultCommentWidth,
		Height:     defaultCommentHeight,
		Color:      d.color,
		Content:    text,
		CreatedBy:  d.user,
	})
	d.discard()
	return nil
}

func (d *DrawingMachine) finish() {
	if d.state != StateDrawing || d.current == nil {
		return
	}

	if math.Abs(d.current.Width) >= domain.MinDragSize && math.Abs(d.current.Height) >= domain.MinDragSize {
		d.store.Create(*d.current)
	} else {
		d.logger.Debug("Discarding sub-threshold annotation",
			"page", d.current.PageNumber, "width", d.current.Width, "height", d.current.Height)
	}

	d.state = StateIdle
	d.current = nil
}

func (d *DrawingMachine) discard() {
	d.state = StateIdle
	d.current = nil
	d.modal = nil
}

// localAnnotationID generates an ephemeral client-side ID. It is replaced
// by the server-issued ID once a save is acknowledged.
func localAnnotationID() string {
	return fmt.Sprintf("ann-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
