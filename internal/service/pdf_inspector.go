package service

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"pdf-annotator/internal/domain"
)

// PDFInspector reads document structure with go-fitz: the page count and
// each page's native, unscaled size. The result seeds the viewport
// tracker's native-size records and bounds pageNumber validation.
type PDFInspector struct {
	logger domain.Logger
}

func NewPDFInspector(logger domain.Logger) *PDFInspector {
	return &PDFInspector{logger: logger}
}

// Inspect opens the PDF from memory and collects per-page native sizes in
// document units (PDF points).
func (p *PDFInspector) Inspect(data []byte) (*domain.PDFInfo, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	info := &domain.PDFInfo{
		PageCount: doc.NumPage(),
		Pages:     make([]domain.PageSize, 0, doc.NumPage()),
	}

	for i := 0; i < info.PageCount; i++ {
		bound, err := doc.Bound(i)
		if err != nil {
			p.logger.Warn("Failed to read page bounds, using US Letter", "page", i+1, "error", err)
			info.Pages = append(info.Pages, domain.PageSize{Width: 612, Height: 792})
			continue
		}
		info.Pages = append(info.Pages, domain.PageSize{
			Width:  float64(bound.Dx()),
			Height: float64(bound.Dy()),
		})
	}

	return info, nil
}

// SeedTracker records every page's native size into the viewport tracker.
// Rotation handling is left to the rasterizing collaborator; pages are
// recorded unrotated.
func SeedTracker(tracker *ViewportTracker, info *domain.PDFInfo) {
	for i, page := range info.Pages {
		tracker.RecordNativeSize(i+1, page.Width, page.Height, 0)
	}
}
