package export

import (
	"bytes"
	"fmt"
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// Page size of the exported document, in PDF points.
var (
	PageWidth  = document.A4.URx - document.A4.LLx
	PageHeight = document.A4.URy - document.A4.LLy
)

// ImageHeight returns the height in points an image of the given pixel size
// occupies when drawn at full page width.
func ImageHeight(b image.Rectangle) float64 {
	if b.Dx() == 0 {
		return 0
	}
	return PageWidth * float64(b.Dy()) / float64(b.Dx())
}

// BuildPDF places img on a single A4 portrait page at full page width,
// anchored to the top edge. Content taller than the page is clipped.
func BuildPDF(img image.Image) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot build pdf from an empty image")
	}

	height := ImageHeight(img.Bounds())

	var buf bytes.Buffer
	page, err := document.WriteSinglePage(&buf, document.A4, pdf.V1_4, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start pdf: %w", err)
	}

	page.PushGraphicsState()
	page.Transform(matrix.Translate(0, PageHeight-height))
	page.Transform(matrix.Scale(PageWidth, height))
	page.DrawXObject(&pdfimage.PNG{Data: img})
	page.PopGraphicsState()

	if err := page.Close(); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
