package service

import (
	"pdf-annotator/internal/domain"
)

// pageGeometry is one arena slot: everything known about a page's geometry.
// Native size and screen box arrive independently (page load vs. resize
// callbacks); the page is usable for coordinate mapping only once both are
// present.
type pageGeometry struct {
	nativeWidth  float64
	nativeHeight float64
	rotation     int
	screen       domain.ScreenBox
	hasNative    bool
	hasScreen    bool
}

// ViewportTracker records, per page, the native (unscaled) size reported by
// the document and the latest rendered screen box, and derives the scale
// factor between them. Pages are kept in a dense arena indexed by
// pageNumber-1 rather than keyed by any live UI handle.
//
// The tracker stores only the latest value for each page; debouncing of
// resize storms is the caller's concern. Records are ephemeral and reset
// when a new document is loaded.
type ViewportTracker struct {
	pages  []pageGeometry
	logger domain.Logger
}

func NewViewportTracker(logger domain.Logger) *ViewportTracker {
	return &ViewportTracker{logger: logger}
}

// RecordNativeSize stores a page's document-native size and rotation,
// overwriting any prior record for that page.
func (t *ViewportTracker) RecordNativeSize(pageNumber int, width, height float64, rotation int) {
	slot := t.slot(pageNumber)
	if slot == nil {
		return
	}
	slot.nativeWidth = width
	slot.nativeHeight = height
	slot.rotation = rotation
	slot.hasNative = true
}

// RecordScreenBox stores the latest rendered box for a page. Called from
// resize notification callbacks; only the newest value is retained.
func (t *ViewportTracker) RecordScreenBox(pageNumber int, box domain.ScreenBox) {
	slot := t.slot(pageNumber)
	if slot == nil {
		return
	}
	slot.screen = box
	slot.hasScreen = true
}

// ScaleFor returns the screen-pixels-per-document-unit factors for a page.
// It fails with domain.ErrNoPageMetrics until both the native size and the
// screen box have been recorded; that failure is the signal the drawing
// machine uses to refuse a gesture on a page that is still loading.
func (t *ViewportTracker) ScaleFor(pageNumber int) (scaleX, scaleY float64, err error) {
	g, err := t.geometry(pageNumber)
	if err != nil {
		return 0, 0, err
	}
	return g.screen.Width / g.nativeWidth, g.screen.Height / g.nativeHeight, nil
}

// NativeSize returns a page's recorded document-native size.
func (t *ViewportTracker) NativeSize(pageNumber int) (width, height float64, err error) {
	idx := pageNumber - 1
	if idx < 0 || idx >= len(t.pages) || !t.pages[idx].hasNative {
		return 0, 0, domain.ErrNoPageMetrics
	}
	return t.pages[idx].nativeWidth, t.pages[idx].nativeHeight, nil
}

// ScreenBox returns a page's latest rendered box.
func (t *ViewportTracker) ScreenBox(pageNumber int) (domain.ScreenBox, error) {
	idx := pageNumber - 1
	if idx < 0 || idx >= len(t.pages) || !t.pages[idx].hasScreen {
		return domain.ScreenBox{}, domain.ErrNoPageMetrics
	}
	return t.pages[idx].screen, nil
}

// Reset drops all page records, e.g. when navigating to a new document.
func (t *ViewportTracker) Reset() {
	t.pages = nil
}

func (t *ViewportTracker) geometry(pageNumber int) (*pageGeometry, error) {
	idx := pageNumber - 1
	if idx < 0 || idx >= len(t.pages) {
		return nil, domain.ErrNoPageMetrics
	}
	g := &t.pages[idx]
	if !g.hasNative || !g.hasScreen || g.nativeWidth <= 0 || g.nativeHeight <= 0 {
		return nil, domain.ErrNoPageMetrics
	}
	return g, nil
}

// slot grows the arena as needed and returns the record for a page, or nil
// for a non-positive page number.
func (t *ViewportTracker) slot(pageNumber int) *pageGeometry {
	if pageNumber < 1 {
		if t.logger != nil {
			t.logger.Warn("Ignoring metrics for invalid page", "page", pageNumber)
		}
		return nil
	}
	idx := pageNumber - 1
	for len(t.pages) <= idx {
		t.pages = append(t.pages, pageGeometry{})
	}
	return &t.pages[idx]
}
