package service

import (
	"pdf-annotator/internal/domain"
)

// CoordinateMapper converts between the two live coordinate frames: screen
// pixels (the rendered page box, varying with zoom and container width) and
// document units (the page's native space). All conversions go through the
// viewport tracker's per-page scale factors.
type CoordinateMapper struct {
	tracker *ViewportTracker
}

func NewCoordinateMapper(tracker *ViewportTracker) *CoordinateMapper {
	return &CoordinateMapper{tracker: tracker}
}

// ScreenDeltaToDocument converts a screen-pixel offset (relative to the
// page box origin) into document units. Used for both gesture anchors and
// drag extents.
func (m *CoordinateMapper) ScreenDeltaToDocument(pageNumber int, dx, dy float64) (docX, docY float64, err error) {
	sx, sy, err := m.tracker.ScaleFor(pageNumber)
	if err != nil {
		return 0, 0, err
	}
	return dx / sx, dy / sy, nil
}

// DocumentRectToScreen maps an annotation's document-space geometry to a
// screen rectangle for overlay rendering. Negative drag extents are
// normalized (signatures excepted, their geometry is already positive),
// and the result is clamped inside the page's screen box so a rectangle
// recorded just before a resize never visually escapes its page.
func (m *CoordinateMapper) DocumentRectToScreen(ann *domain.Annotation) (domain.Rect, error) {
	sx, sy, err := m.tracker.ScaleFor(ann.PageNumber)
	if err != nil {
		return domain.Rect{}, err
	}
	box, err := m.tracker.ScreenBox(ann.PageNumber)
	if err != nil {
		return domain.Rect{}, err
	}

	r := ann.Rect()
	out := domain.Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}

	out.X = clamp(out.X, 0, box.Width-out.Width)
	out.Y = clamp(out.Y, 0, box.Height-out.Height)
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
