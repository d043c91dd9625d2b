package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/database/books"
	"bookshelf/internal/exporters"
)

// ExportController serves the caller's full catalog as a file download.
type ExportController struct {
	repo *books.Repository
}

// NewExportController creates a new export controller.
func NewExportController(repo *books.Repository) *ExportController {
	return &ExportController{repo: repo}
}

// ExportCSV streams the caller's catalog as a CSV attachment.
func (ec *ExportController) ExportCSV(c *gin.Context) {
	catalog, err := ec.repo.GetAllBooks(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "export csv")
		return
	}

	var buf bytes.Buffer
	if err := exporters.WriteCSV(&buf, catalog); err != nil {
		respondInternalError(c, err, "export csv")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="books.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportPDF streams the caller's catalog as a PDF attachment.
func (ec *ExportController) ExportPDF(c *gin.Context) {
	catalog, err := ec.repo.GetAllBooks(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "export pdf")
		return
	}

	var buf bytes.Buffer
	if err := exporters.WritePDF(&buf, catalog); err != nil {
		respondInternalError(c, err, "export pdf")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="books.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
