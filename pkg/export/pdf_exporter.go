package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pdfContentWidth = 190.0

// PDFExporter renders documents into a printable A4 report.
type PDFExporter struct {
	// Widths optionally weights columns by header; missing headers weigh 1.
	Widths map[string]float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out the title, the summary block and the table. Long cells wrap.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	if len(doc.Summary) > 0 {
		for _, line := range doc.Summary {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(45, 6, tr(line[0]), "", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, 6, tr(line[1]), "", 1, "", false, 0, "")
		}
		pdf.Ln(4)
	}

	widths := e.columnWidths(doc.Data.Headers)
	pdf.SetFont("Arial", "B", 10)
	for i, header := range doc.Data.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	const lineHeight = 5.0
	for _, row := range doc.Data.Rows {
		height := lineHeight
		for i, header := range doc.Data.Headers {
			lines := pdf.SplitLines([]byte(tr(row[header])), widths[i]-2)
			if h := float64(len(lines)) * lineHeight; h > height {
				height = h
			}
		}
		if _, pageHeight := pdf.GetPageSize(); pdf.GetY()+height > pageHeight-15 {
			pdf.AddPage()
		}
		x, y := pdf.GetXY()
		for i, header := range doc.Data.Headers {
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.MultiCell(widths[i], lineHeight, tr(row[header]), "", "L", false)
			x += widths[i]
			pdf.SetXY(x, y)
		}
		pdf.SetXY(10, y+height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(headers []string) []float64 {
	total := 0.0
	weights := make([]float64, len(headers))
	for i, header := range headers {
		weight := 1.0
		if w, ok := e.Widths[header]; ok && w > 0 {
			weight = w
		}
		weights[i] = weight
		total += weight
	}
	for i := range weights {
		weights[i] = pdfContentWidth * weights[i] / total
	}
	return weights
}
