package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sparshnfc/storefront/internal/docstore"
)

// OrdersPDF writes the orders report as a simple text PDF.
func OrdersPDF(w io.Writer, orders []docstore.Document) error {
	return writePDF(w, "Orders Report", orders, orderFields)
}

// UsersPDF writes the users report as a simple text PDF.
func UsersPDF(w io.Writer, users []docstore.Document) error {
	return writePDF(w, "Users Report", users, userFields)
}

func writePDF(w io.Writer, title string, docs []docstore.Document, rowOf func(docstore.Document) []field) error {
	if len(docs) == 0 {
		return fmt.Errorf("no data to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on: "+time.Now().Format("02/01/2006, 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for i, doc := range docs {
		row := rowOf(doc)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s", i+1, row[0].Value), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, f := range row[1:] {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", f.Label, f.Value), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	return pdf.Output(w)
}
