package exporters

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"bookshelf/internal/entities"
)

// WritePDF renders the catalog as a simple one-line-per-book PDF document.
func WritePDF(w io.Writer, books []entities.Book) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Book Catalog", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Book Catalog", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for i, book := range books {
		line := fmt.Sprintf("%d. %s - %s [%s]", i+1, book.Title, book.Author, book.Status)
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}

	if len(books) == 0 {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, 8, "No books in the catalog yet.", "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}
