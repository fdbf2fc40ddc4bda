package export

import (
	"bytes"
	"fmt"

	"pdf-annotator/internal/domain"
	"pdf-annotator/pkg/rgba"
)

// pageOverlay builds the content stream drawn over one page. All incoming
// geometry is in the annotation's top-left-origin document frame; every
// draw call performs the flip into PDF's bottom-up frame using the page
// height.
type pageOverlay struct {
	ops    bytes.Buffer
	alphas []float64
	images []uint32
}

// gsName returns the ExtGState resource name for an opacity, registering
// it on first use.
func (o *pageOverlay) gsName(alpha float64) string {
	for i, a := range o.alphas {
		if a == alpha {
			return fmt.Sprintf("GSA%d", i)
		}
	}
	o.alphas = append(o.alphas, alpha)
	return fmt.Sprintf("GSA%d", len(o.alphas)-1)
}

// imageName registers an image XObject for this page and returns its
// resource name.
func (o *pageOverlay) imageName(objectID uint32) string {
	o.images = append(o.images, objectID)
	return fmt.Sprintf("IMA%d", len(o.images)-1)
}

// drawHighlight fills the normalized rectangle with the annotation color.
// The anchor was authored top-left-down, so the PDF y is
// pageHeight - y - height.
func (o *pageOverlay) drawHighlight(pageHeight float64, rect domain.Rect, color rgba.Color) {
	r, g, b := color.Norm()
	gs := o.gsName(color.A)

	fmt.Fprintf(&o.ops, "q\n/%s gs\n%s %s %s rg\n%s %s %s %s re\nf\nQ\n",
		gs,
		formatNumber(r), formatNumber(g), formatNumber(b),
		formatNumber(rect.X), formatNumber(pageHeight-rect.Y-rect.Height),
		formatNumber(rect.Width), formatNumber(rect.Height))
}

// drawUnderline strokes a fixed-thickness horizontal line along the bottom
// edge of the normalized rectangle.
func (o *pageOverlay) drawUnderline(pageHeight float64, rect domain.Rect, color rgba.Color) {
	r, g, b := color.Norm()
	gs := o.gsName(color.A)
	y := pageHeight - (rect.Y + rect.Height)

	fmt.Fprintf(&o.ops, "q\n/%s gs\n%s %s %s RG\n%s w\n%s %s m\n%s %s l\nS\nQ\n",
		gs,
		formatNumber(r), formatNumber(g), formatNumber(b),
		formatNumber(domain.UnderlineThickness),
		formatNumber(rect.X), formatNumber(y),
		formatNumber(rect.X+rect.Width), formatNumber(y))
}

// drawImage places a registered image XObject at the annotation's anchor.
// Signature geometry is axis-positive by construction and is used as
// stored, no normalization.
func (o *pageOverlay) drawImage(pageHeight float64, ann *domain.Annotation, objectID uint32) {
	name := o.imageName(objectID)

	fmt.Fprintf(&o.ops, "q\n%s 0 0 %s %s %s cm\n/%s Do\nQ\n",
		formatNumber(ann.Width), formatNumber(ann.Height),
		formatNumber(ann.X), formatNumber(pageHeight-ann.Y-ann.Height),
		name)
}

func (o *pageOverlay) empty() bool {
	return o.ops.Len() == 0
}

// contentObject frames the accumulated operators as a stream object body.
func (o *pageOverlay) contentObject() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Length %d >>\nstream\n", o.ops.Len())
	buf.Write(o.ops.Bytes())
	buf.WriteString("endstream")
	return buf.Bytes()
}

// extGStateDict renders the /ExtGState entries this overlay needs, one
// per distinct opacity.
func (o *pageOverlay) extGStateDict() string {
	var buf bytes.Buffer
	for i, a := range o.alphas {
		fmt.Fprintf(&buf, "/GSA%d << /Type /ExtGState /ca %s /CA %s >> ",
			i, formatNumber(a), formatNumber(a))
	}
	return buf.String()
}

// xObjectDict renders the /XObject entries referencing the overlay's
// registered images.
func (o *pageOverlay) xObjectDict() string {
	var buf bytes.Buffer
	for i, id := range o.images {
		fmt.Fprintf(&buf, "/IMA%d %d 0 R ", i, id)
	}
	return buf.String()
}
