// Package export bakes annotations into PDF bytes using an incremental
// update: the original document is preserved verbatim and the overlay
// content, rewritten page objects, cross-reference section and trailer
// are appended after it.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/digitorus/pdf"

	"pdf-annotator/internal/domain"
	apperrors "pdf-annotator/pkg/errors"
	"pdf-annotator/pkg/rgba"
)

// Compositor implements domain.Compositor over an incremental PDF writer.
type Compositor struct {
	logger domain.Logger
}

func NewCompositor(logger domain.Logger) *Compositor {
	return &Compositor{logger: logger}
}

// Compose draws the exportable annotations onto the document and returns
// the updated bytes together with the number of annotations drawn.
// Comments and notes are filtered out, annotations on nonexistent pages
// are skipped, and a signature whose image fails to decode is skipped
// with a warning rather than failing the whole export.
func (c *Compositor) Compose(data []byte, annotations []domain.Annotation) (result []byte, drawn int, err error) {
	exportable := make([]domain.Annotation, 0, len(annotations))
	for _, ann := range annotations {
		if ann.Exportable() {
			exportable = append(exportable, ann)
		}
	}
	if len(exportable) == 0 {
		out := make([]byte, len(data))
		copy(out, data)
		return out, 0, nil
	}

	// The underlying parser panics on malformed documents.
	defer func() {
		if r := recover(); r != nil {
			result, drawn = nil, 0
			err = apperrors.NewProcessingError(fmt.Sprintf("malformed PDF: %v", r), nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, apperrors.NewProcessingError("failed to parse PDF", err)
	}

	ctx, err := newUpdateContext(reader, data)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to start incremental update", err)
	}

	numPages := reader.NumPage()
	byPage := make(map[int][]domain.Annotation)
	for _, ann := range exportable {
		if ann.PageNumber < 1 || ann.PageNumber > numPages {
			c.logger.Warn("Skipping annotation on nonexistent page",
				"annotationId", ann.ID, "page", ann.PageNumber, "pageCount", numPages)
			continue
		}
		byPage[ann.PageNumber] = append(byPage[ann.PageNumber], ann)
	}
	if len(byPage) == 0 {
		out := make([]byte, len(data))
		copy(out, data)
		return out, 0, nil
	}

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		anns := byPage[pageNum]
		if len(anns) == 0 {
			continue
		}

		page := reader.Page(pageNum)
		_, pageHeight := mediaBoxSize(page.V)

		overlay := &pageOverlay{}
		for _, ann := range anns {
			n, err := c.drawAnnotation(ctx, overlay, pageHeight, ann)
			if err != nil {
				return nil, 0, err
			}
			drawn += n
		}
		if overlay.empty() {
			continue
		}

		contentID, err := ctx.addObject(overlay.contentObject())
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to write content stream", err)
		}
		if err := rewritePage(ctx, page.V, contentID, overlay); err != nil {
			return nil, 0, apperrors.NewInternalError("failed to rewrite page object", err)
		}
	}

	if err := ctx.writeXref(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to write xref section", err)
	}
	if err := ctx.writeTrailer(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to write trailer", err)
	}

	c.logger.Info("Annotations composed into document",
		"requested", len(annotations), "drawn", drawn, "pages", len(byPage))
	return ctx.bytes(), drawn, nil
}

// drawAnnotation emits one annotation's operators and reports how many
// annotations it contributed (0 or 1).
func (c *Compositor) drawAnnotation(ctx *updateContext, overlay *pageOverlay, pageHeight float64, ann domain.Annotation) (int, error) {
	colorInput := ann.Color
	if colorInput == "" {
		colorInput = domain.DefaultColor
	}
	color, ok := rgba.Parse(colorInput)
	if !ok {
		c.logger.Warn("Malformed annotation color, using fallback",
			"annotationId", ann.ID, "color", ann.Color)
	}

	switch ann.Type {
	case domain.AnnotationHighlight:
		overlay.drawHighlight(pageHeight, ann.Rect(), color)
	case domain.AnnotationUnderline:
		overlay.drawUnderline(pageHeight, ann.Rect(), color)
	case domain.AnnotationSignature:
		imageID, err := embedImage(ctx, ann.ImageData)
		if err != nil {
			c.logger.Warn("Skipping signature with undecodable image",
				"annotationId", ann.ID, "error", err)
			return 0, nil
		}
		overlay.drawImage(pageHeight, &ann, imageID)
	default:
		return 0, nil
	}
	return 1, nil
}

// mediaBoxSize resolves a page's media box, walking up the page tree for
// an inherited value. Pages without one anywhere get US Letter.
func mediaBoxSize(page pdf.Value) (width, height float64) {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() == 4 {
			x0 := numberValue(mb.Index(0))
			y0 := numberValue(mb.Index(1))
			x1 := numberValue(mb.Index(2))
			y1 := numberValue(mb.Index(3))
			return x1 - x0, y1 - y0
		}
	}
	return 612, 792
}

func numberValue(v pdf.Value) float64 {
	if v.Kind() == pdf.Integer {
		return float64(v.Int64())
	}
	return v.Float64()
}

// rewritePage appends an updated definition of the page object that chains
// the overlay content stream after the existing content and merges the
// overlay's graphics states and images into the page resources. Every
// other entry is carried over unchanged, with indirect values kept as
// references.
func rewritePage(ctx *updateContext, page pdf.Value, contentID uint32, overlay *pageOverlay) error {
	ptr := page.GetPtr()
	if ptr.GetID() == 0 {
		return fmt.Errorf("page object is not indirect")
	}

	var b strings.Builder
	b.WriteString("<<")
	hasContents, hasResources := false, false
	for _, key := range page.Keys() {
		switch key {
		case "Contents":
			hasContents = true
			b.WriteString(" /Contents ")
			b.WriteString(appendContents(page.Key(key), contentID))
		case "Resources":
			hasResources = true
			b.WriteString(" /Resources ")
			b.WriteString(mergeResources(page.Key(key), overlay))
		default:
			b.WriteString(" /")
			b.WriteString(key)
			b.WriteString(" ")
			b.WriteString(serializeValue(page.Key(key)))
		}
	}
	if !hasContents {
		fmt.Fprintf(&b, " /Contents [ %d 0 R ]", contentID)
	}
	if !hasResources {
		b.WriteString(" /Resources ")
		b.WriteString(mergeResources(pdf.Value{}, overlay))
	}
	b.WriteString(" >>")

	return ctx.updateObject(ptr.GetID(), []byte(b.String()))
}

// appendContents returns a contents array with the overlay stream appended
// after the page's existing content, so the overlay paints on top.
func appendContents(contents pdf.Value, contentID uint32) string {
	newRef := fmt.Sprintf("%d 0 R", contentID)

	if contents.Kind() == pdf.Array {
		parts := make([]string, 0, contents.Len()+1)
		for i := 0; i < contents.Len(); i++ {
			parts = append(parts, serializeValue(contents.Index(i)))
		}
		parts = append(parts, newRef)
		return "[ " + strings.Join(parts, " ") + " ]"
	}
	return "[ " + serializeValue(contents) + " " + newRef + " ]"
}

// mergeResources builds the rewritten page's resource dictionary: existing
// entries carried over, with the overlay's ExtGState and XObject names
// merged in.
func mergeResources(res pdf.Value, overlay *pageOverlay) string {
	var b strings.Builder
	b.WriteString("<<")
	hasGS, hasXObj := false, false
	for _, key := range res.Keys() {
		switch key {
		case "ExtGState":
			hasGS = true
			b.WriteString(" /ExtGState ")
			b.WriteString(mergeDict(res.Key(key), overlay.extGStateDict()))
		case "XObject":
			hasXObj = true
			b.WriteString(" /XObject ")
			b.WriteString(mergeDict(res.Key(key), overlay.xObjectDict()))
		default:
			b.WriteString(" /")
			b.WriteString(key)
			b.WriteString(" ")
			b.WriteString(serializeValue(res.Key(key)))
		}
	}
	if !hasGS && len(overlay.alphas) > 0 {
		b.WriteString(" /ExtGState << ")
		b.WriteString(overlay.extGStateDict())
		b.WriteString(">>")
	}
	if !hasXObj && len(overlay.images) > 0 {
		b.WriteString(" /XObject << ")
		b.WriteString(overlay.xObjectDict())
		b.WriteString(">>")
	}
	b.WriteString(" >>")
	return b.String()
}

// mergeDict copies an existing name dictionary and appends extra entries.
func mergeDict(v pdf.Value, extra string) string {
	var b strings.Builder
	b.WriteString("<<")
	for _, key := range v.Keys() {
		b.WriteString(" /")
		b.WriteString(key)
		b.WriteString(" ")
		b.WriteString(serializeValue(v.Key(key)))
	}
	b.WriteString(" ")
	b.WriteString(extra)
	b.WriteString(">>")
	return b.String()
}
