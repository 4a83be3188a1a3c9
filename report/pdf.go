package report

import (
	"strconv"

	"github.com/jung-kurt/gofpdf"
	apperrors "meetups.app/errors"
	"meetups.app/models"
)

const (
	pdfFontFamily = "Times"
	pdfFontSize   = 10
	footerSpace   = 20
)

// Column widths in millimetres, sized to a landscape A4 page.
var pdfColWidths = []float64{8, 40, 34, 66, 30, 30, 30, 39}

// tablePDF renders report rows as a bordered table. The column header
// repeats on every page and the footer carries the page number.
type tablePDF struct {
	pdf       *gofpdf.Fpdf
	titles    []string
	rowHeight float64
}

func newTablePDF(titles []string) *tablePDF {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	pdf.SetAutoPageBreak(false, 0)

	_, fontHt := pdf.GetFontSize()
	t := &tablePDF{
		pdf:       pdf,
		titles:    titles,
		rowHeight: fontHt * 1.1,
	}

	pdf.SetHeaderFunc(t.header)
	pdf.SetFooterFunc(t.footer)
	pdf.SetTitle("Available meetups list", false)
	pdf.AddPage()
	return t
}

func (t *tablePDF) header() {
	t.pdf.SetFont(pdfFontFamily, "B", pdfFontSize)
	for i, title := range t.titles {
		t.pdf.CellFormat(pdfColWidths[i], t.rowHeight, title, "1", 0, "C", false, 0, "")
	}
	t.pdf.Ln(t.rowHeight)
	t.pdf.SetFont(pdfFontFamily, "", pdfFontSize)
}

func (t *tablePDF) footer() {
	t.pdf.SetY(-15)
	t.pdf.CellFormat(0, 10, strconv.Itoa(t.pdf.PageNo()), "", 0, "R", false, 0, "")
}

// rowLines returns the height of a row in text lines, taking cell
// wrapping into account.
func (t *tablePDF) rowLines(row []string) int {
	maxLines := 1
	for i, cell := range row {
		if lines := len(t.pdf.SplitLines([]byte(cell), pdfColWidths[i])); lines > maxLines {
			maxLines = lines
		}
	}
	return maxLines
}

func (t *tablePDF) drawTable(path string, rows [][]string) error {
	pdf := t.pdf
	_, pageHeight := pdf.GetPageSize()

	for _, row := range rows {
		height := t.rowHeight * float64(t.rowLines(row))
		if pdf.GetY()+height > pageHeight-footerSpace {
			pdf.AddPage()
		}

		x, y := pdf.GetXY()
		for i, cell := range row {
			width := pdfColWidths[i]
			pdf.Rect(x, y, width, height, "D")
			pdf.MultiCell(width, t.rowHeight, cell, "", "L", false)
			x += width
			pdf.SetXY(x, y)
		}
		pdf.SetXY(pdf.GetX(), y)
		pdf.Ln(height)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return apperrors.NewFileStorageError("failed to write PDF report", err)
	}
	return nil
}

// WritePDF writes the meetup records as a paginated PDF table
func WritePDF(path string, records []models.MeetupRecord) error {
	return newTablePDF(Titles).drawTable(path, Rows(records))
}
