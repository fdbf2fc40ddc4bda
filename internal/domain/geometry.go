package domain

// Rect is an axis-aligned rectangle. Depending on context it is either in
// document units or screen pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScreenBox is the rendered on-screen pixel box of a page element. Its size
// changes with zoom and container width; its origin is the page's top-left
// corner in container coordinates.
type ScreenBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageSize is a page's native size in document units.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
