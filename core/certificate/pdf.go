package certificate

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

const programTitle = "AI Essentials for Effectiveness in Telecoms, Sales, Credit, Finance & Data Analysis"

// renderPDF lays out a single A4 certificate page. The output is a pure
// function of doc and issuer: the PDF creation date is pinned to
// doc.IssuedAt so identical inputs yield identical bytes.
func renderPDF(doc Document, issuer string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetModificationDate(doc.IssuedAt)
	pdf.SetTitle("Certificate of Completion", true)
	pdf.SetAuthor(issuer, true)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// border
	pdf.SetDrawColor(42, 67, 101) // #2A4365
	pdf.SetLineWidth(1.8)
	pdf.Rect(14, 14, pageW-28, pageH-28, "D")

	// title
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(42, 67, 101)
	pdf.SetY(32)
	pdf.CellFormat(0, 12, "Certificate of Completion", "", 1, "C", false, 0, "")

	// body
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(60)
	lines := []struct {
		text  string
		style string
		size  float64
	}{
		{"This certifies that", "", 12},
		{"", "", 12},
		{doc.StudentName, "B", 16},
		{"", "", 12},
		{"has successfully completed the program", "", 12},
		{"", "", 12},
		{programTitle, "B", 12},
		{"", "", 12},
		{fmt.Sprintf("with an overall average of %.1f%%,", doc.Average), "", 12},
		{fmt.Sprintf("organized by %s.", issuer), "", 12},
	}
	for _, line := range lines {
		pdf.SetFont("Helvetica", line.style, line.size)
		pdf.CellFormat(0, 9, line.text, "", 1, "C", false, 0, "")
	}

	// footer
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetXY(22, pageH-28)
	pdf.CellFormat(80, 8, "Issued on: "+doc.IssuedAt.Format("2006-01-02"), "", 0, "L", false, 0, "")
	pdf.SetXY(pageW-22-110, pageH-28)
	pdf.CellFormat(110, 8, "Certificate ID: "+doc.SerialNumber, "", 0, "R", false, 0, "")

	var buff bytes.Buffer
	if err := pdf.Output(&buff); err != nil {
		return nil, errors.Wrap(err, "rendering certificate")
	}
	return buff.Bytes(), nil
}
