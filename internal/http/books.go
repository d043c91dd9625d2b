package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/database/books"
	"bookshelf/internal/entities"
)

// BooksController handles the owner-scoped book catalog endpoints.
type BooksController struct {
	repo *books.Repository
}

// NewBooksController creates a new books controller.
func NewBooksController(repo *books.Repository) *BooksController {
	return &BooksController{repo: repo}
}

type createBookRequest struct {
	Title     string                 `json:"title" binding:"required"`
	Author    string                 `json:"author" binding:"required"`
	Publisher string                 `json:"publisher"`
	Genre     string                 `json:"genre"`
	Status    entities.ReadingStatus `json:"status"`
	Progress  *int                   `json:"progress"`
}

type updateBookRequest struct {
	Title            *string                 `json:"title"`
	Author           *string                 `json:"author"`
	Publisher        *string                 `json:"publisher"`
	Genre            *string                 `json:"genre"`
	Status           *entities.ReadingStatus `json:"status"`
	Progress         *int                    `json:"progress"`
	AvailableForLoan *bool                   `json:"available_for_loan"`
}

// Create adds a book to the caller's catalog. Status defaults to TO_READ
// and progress to 0.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}
	if req.Status == "" {
		req.Status = entities.StatusToRead
	} else if !entities.ValidStatus(req.Status) {
		respondBadRequest(c, "invalid status")
		return
	}

	book := &entities.Book{
		UserID:           GetUserID(c),
		Title:            req.Title,
		Author:           req.Author,
		Publisher:        req.Publisher,
		Genre:            req.Genre,
		Status:           req.Status,
		AvailableForLoan: true,
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			respondBadRequest(c, "progress must be between 0 and 100")
			return
		}
		book.Progress = *req.Progress
	}

	if err := bc.repo.CreateBook(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// List returns one page of the caller's books matching the query filters.
func (bc *BooksController) List(c *gin.Context) {
	status := entities.ReadingStatus(c.Query("status"))
	if status != "" && !entities.ValidStatus(status) {
		respondBadRequest(c, "invalid status")
		return
	}

	query := books.Query{
		Search:    c.Query("q"),
		Status:    status,
		Page:      parsePositiveQueryInt(c, "page", 1),
		Limit:     parsePositiveQueryInt(c, "limit", books.DefaultLimit),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	items, total, err := bc.repo.ListBooks(GetUserID(c), query)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	limit := query.Limit
	if limit > books.MaxLimit {
		limit = books.MaxLimit
	}
	c.JSON(http.StatusOK, newPaginatedResponse(items, total, query.Page, limit))
}

// Get returns one of the caller's books by ID.
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.repo.GetBook(GetUserID(c), id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Update applies a partial update to one of the caller's books.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Status != nil && !entities.ValidStatus(*req.Status) {
		respondBadRequest(c, "invalid status")
		return
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		respondBadRequest(c, "progress must be between 0 and 100")
		return
	}
	if req.Title != nil && *req.Title == "" {
		respondBadRequest(c, "title cannot be empty")
		return
	}
	if req.Author != nil && *req.Author == "" {
		respondBadRequest(c, "author cannot be empty")
		return
	}

	patch := books.Patch{
		Title:            req.Title,
		Author:           req.Author,
		Publisher:        req.Publisher,
		Genre:            req.Genre,
		Status:           req.Status,
		Progress:         req.Progress,
		AvailableForLoan: req.AvailableForLoan,
	}

	book, err := bc.repo.UpdateBook(GetUserID(c), id, patch)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete removes one of the caller's books.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.repo.DeleteBook(GetUserID(c), id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

// Stats returns the caller's per-status book counts.
func (bc *BooksController) Stats(c *gin.Context) {
	stats, err := bc.repo.GetStats(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "book stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
