package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth   = 277.0 // A4 landscape minus margins
	lineHeight  = 5.0
	headerFirst = 0.22 // share of width for the leading label columns
)

// PDFExporter renders datasets as a landscape grid. Long cells wrap and the
// header row is repeated on every page.
type PDFExporter struct {
	labelColumns int
}

// NewPDFExporter constructs a PDF exporter. The first labelColumns columns
// share a narrower band than the remaining ones.
func NewPDFExporter(labelColumns int) *PDFExporter {
	if labelColumns < 0 {
		labelColumns = 0
	}
	return &PDFExporter{labelColumns: labelColumns}
}

// Render creates the PDF document.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	widths := e.columnWidths(len(data.Headers))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	left, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		height := lineHeight
		for i, cell := range row {
			lines := pdf.SplitLines([]byte(tr(cell)), widths[i]-2)
			if h := float64(len(lines)) * lineHeight; h > height {
				height = h
			}
		}
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
			writeHeader()
		}

		x, y := pdf.GetXY()
		for i, cell := range row {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.SetXY(x+1, y)
			pdf.MultiCell(widths[i]-2, lineHeight, tr(cell), "", "L", false)
			x += widths[i]
			pdf.SetXY(x, y)
		}
		pdf.SetXY(left, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(n int) []float64 {
	widths := make([]float64, n)
	label := e.labelColumns
	if label >= n {
		label = 0
	}
	if label == 0 {
		for i := range widths {
			widths[i] = pageWidth / float64(n)
		}
		return widths
	}
	labelWidth := pageWidth * headerFirst / float64(label)
	restWidth := pageWidth * (1 - headerFirst) / float64(n-label)
	for i := range widths {
		if i < label {
			widths[i] = labelWidth
		} else {
			widths[i] = restWidth
		}
	}
	return widths
}
