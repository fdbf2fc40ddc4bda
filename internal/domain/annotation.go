package domain

// AnnotationType identifies the kind of mark placed on a page.
type AnnotationType string

const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationUnderline AnnotationType = "underline"
	AnnotationSignature AnnotationType = "signature"
	AnnotationComment   AnnotationType = "comment"
	AnnotationNote      AnnotationType = "note"
)

// MinDragSize is the minimum extent (in document units at scale 1) a drawn
// annotation must reach in both axes before it is committed. Smaller drags
// are treated as accidental clicks and discarded.
const MinDragSize = 5.0

// UnderlineThickness is the stroke width, in document units, used when an
// underline is baked into the exported PDF.
const UnderlineThickness = 2.0

// DefaultColor is applied when an annotation carries no color of its own.
const DefaultColor = "rgba(255, 235, 60, 0.5)"

// CreatedBy records the attribution of an annotation.
type CreatedBy struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Annotation is a mark on a page, positioned in document units: the page's
// native, unscaled coordinate space with origin top-left and y growing
// downward. The flip to PDF's bottom-up convention happens only at export.
//
// Width and height are signed; a drag up or to the left produces negative
// extents. Rect() normalizes them. Signature geometry is always positive by
// construction and is never normalized.
type Annotation struct {
	ID         string         `json:"id"`
	Type       AnnotationType `json:"type"`
	PageNumber int            `json:"pageNumber"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Color      string         `json:"color,omitempty"`
	Content    string         `json:"content,omitempty"`
	ImageData  string         `json:"imageData,omitempty"`
	CreatedBy  *CreatedBy     `json:"createdBy,omitempty"`
}

// Exportable reports whether this annotation type is baked into the output
// document. Comments and notes are interactive-only overlays.
func (a *Annotation) Exportable() bool {
	switch a.Type {
	case AnnotationHighlight, AnnotationUnderline, AnnotationSignature:
		return true
	}
	return false
}

// Rect returns the annotation's geometry normalized to a positive-extent
// rectangle with an adjusted anchor. Signatures are returned as stored.
func (a *Annotation) Rect() Rect {
	if a.Type == AnnotationSignature {
		return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	}
	r := Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// ApiAnnotation is the wire shape used by the annotation persistence API.
type ApiAnnotation struct {
	ID         string         `json:"id,omitempty"`
	FileID     string         `json:"fileId"`
	PageNumber int            `json:"pageNumber"`
	Type       AnnotationType `json:"type"`
	Position   Position       `json:"position"`
	Width      *float64       `json:"width,omitempty"`
	Height     *float64       `json:"height,omitempty"`
	Color      string         `json:"color,omitempty"`
	Content    string         `json:"content,omitempty"`
	ImageData  string         `json:"imageData,omitempty"`
}

// Position is the wire anchor point of an ApiAnnotation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// defaultSizes supplies width/height for server annotations that omit them.
var defaultSizes = map[AnnotationType]Rect{
	AnnotationComment:   {Width: 150, Height: 30},
	AnnotationNote:      {Width: 150, Height: 30},
	AnnotationHighlight: {Width: 200, Height: 25},
	AnnotationUnderline: {Width: 200, Height: 3},
	AnnotationSignature: {Width: 150, Height: 100},
}

// FromAPI converts a persisted wire annotation into the internal shape,
// applying the type's default size when the server omits width or height.
func FromAPI(api ApiAnnotation) Annotation {
	ann := Annotation{
		ID:         api.ID,
		Type:       api.Type,
		PageNumber: api.PageNumber,
		X:          api.Position.X,
		Y:          api.Position.Y,
		Color:      api.Color,
		Content:    api.Content,
		ImageData:  api.ImageData,
	}
	def := defaultSizes[api.Type]
	if api.Width != nil {
		ann.Width = *api.Width
	} else {
		ann.Width = def.Width
	}
	if api.Height != nil {
		ann.Height = *api.Height
	} else {
		ann.Height = def.Height
	}
	return ann
}

// ToAPI converts an internal annotation into the wire shape for saving.
func ToAPI(fileID string, ann Annotation) ApiAnnotation {
	w, h := ann.Width, ann.Height
	return ApiAnnotation{
		ID:         ann.ID,
		FileID:     fileID,
		PageNumber: ann.PageNumber,
		Type:       ann.Type,
		Position:   Position{X: ann.X, Y: ann.Y},
		Width:      &w,
		Height:     &h,
		Color:      ann.Color,
		Content:    ann.Content,
		ImageData:  ann.ImageData,
	}
}
