package assemble

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

// renderAnnotatedPage produces a standalone one-page document: page pageNum
// of src with the annotations burned in, in list order. src is never
// modified; annotation geometry is preview-space and is scaled here using the
// page's true MediaBox width.
func renderAnnotatedPage(src []byte, pageNum int, anns []Annotation, previewWidth float64) (out []byte, err error) {
	n, err := pageCount(src)
	if err != nil {
		return nil, err
	}
	if pageNum < 0 || pageNum >= n {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNum, n)
	}

	// The importer reads from a file path; stage the source bytes.
	tmp, err := os.CreateTemp("", "overlay-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("stage source: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stage source: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stage source: %w", err)
	}

	// The importer panics on PDFs it cannot parse; contain that to this
	// page's render.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: import page: %v", ErrMalformedSource, r)
		}
	}()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	imp := gofpdi.NewImporter()

	tpl := imp.ImportPage(pdf, tmp.Name(), pageNum+1, "/MediaBox")
	sizes := imp.GetPageSizes()
	mediaBox, ok := sizes[pageNum+1]["/MediaBox"]
	if !ok || mediaBox["w"] <= 0 || mediaBox["h"] <= 0 {
		return nil, fmt.Errorf("%w: no MediaBox for page %d", ErrMalformedSource, pageNum+1)
	}
	w, h := mediaBox["w"], mediaBox["h"]

	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)

	scale := ScaleFactor(w, previewWidth)
	for i, a := range anns {
		drawAnnotation(pdf, a, i, scale)
	}

	if pdf.Err() {
		return nil, fmt.Errorf("%w: draw: %v", ErrMalformedSource, pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: output: %v", ErrMalformedSource, err)
	}
	return buf.Bytes(), nil
}

// drawAnnotation paints one annotation onto the current page. Later
// annotations paint over earlier ones, so order is the caller's list order.
func drawAnnotation(pdf *gofpdf.Fpdf, a Annotation, idx int, scale float64) {
	switch v := a.(type) {
	case Text:
		drawText(pdf, v, scale)
	case Image:
		drawImage(pdf, v, idx, scale)
	case Rect:
		b := v.Box.Scale(scale)
		setShapeStyle(pdf, v.Fill, v.Border)
		pdf.Rect(b.X, b.Y, b.W, b.H, "FD")
	case Ellipse:
		b := v.Box.Scale(scale)
		setShapeStyle(pdf, v.Fill, v.Border)
		pdf.Ellipse(b.X+b.W/2, b.Y+b.H/2, b.W/2, b.H/2, 0, "FD")
	}
}

func drawText(pdf *gofpdf.Fpdf, t Text, scale float64) {
	b := t.Box.Scale(scale)
	size := t.FontSize * scale

	// Bold/italic flags are deliberately not applied; the regular face
	// matches the client preview.
	pdf.SetFont("Helvetica", "", size)
	pdf.SetTextColor(int(t.Color.R), int(t.Color.G), int(t.Color.B))
	pdf.SetXY(b.X, b.Y)

	// The box size is a client-side estimate: text that does not fit spills
	// below the box rather than being reflowed or clipped.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(b.W, size*1.2, tr(t.Content), "", "L", false)
}

func drawImage(pdf *gofpdf.Fpdf, img Image, idx int, scale float64) {
	b := img.Box.Scale(scale)
	opts := gofpdf.ImageOptions{ImageType: img.Format, ReadDpi: false}
	name := fmt.Sprintf("overlay_img_%d", idx)
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	// Explicit width and height stretch the image to fill the box exactly.
	pdf.ImageOptions(name, b.X, b.Y, b.W, b.H, false, opts, 0, "")
}

func setShapeStyle(pdf *gofpdf.Fpdf, fill, border RGB) {
	pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	pdf.SetDrawColor(int(border.R), int(border.G), int(border.B))
	pdf.SetLineWidth(1)
}
