// Package exporters renders a user's book catalog to downloadable formats.
package exporters

import (
	"encoding/csv"
	"io"
	"strconv"

	"bookshelf/internal/entities"
)

var csvHeader = []string{"Title", "Author", "Publisher", "Genre", "Status", "Progress", "Available For Loan"}

// WriteCSV renders the catalog as CSV with a header row.
func WriteCSV(w io.Writer, books []entities.Book) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, book := range books {
		record := []string{
			book.Title,
			book.Author,
			book.Publisher,
			book.Genre,
			string(book.Status),
			strconv.Itoa(book.Progress),
			strconv.FormatBool(book.AvailableForLoan),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
