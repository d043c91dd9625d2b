package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/database/loans"
)

// LoansController handles the loan workflow endpoints. Mutations are scoped
// to the lender; foreign loans read as not found.
type LoansController struct {
	repo *loans.Repository
}

// NewLoansController creates a new loans controller.
func NewLoansController(repo *loans.Repository) *LoansController {
	return &LoansController{repo: repo}
}

type createLoanRequest struct {
	BookID         uint `json:"book_id" binding:"required"`
	BorrowedFromID uint `json:"borrowed_from_id" binding:"required"`
}

type updateLoanRequest struct {
	BorrowedFromID *uint      `json:"borrowed_from_id"`
	ReturnDate     *time.Time `json:"return_date"`
}

// Create registers a loan of one of the caller's books and marks the book
// unavailable.
func (lc *LoansController) Create(c *gin.Context) {
	var req createLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id and borrowed_from_id are required")
		return
	}

	loan, err := lc.repo.CreateLoan(GetUserID(c), req.BookID, req.BorrowedFromID)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, loans.ErrBorrowerNotFound):
			respondNotFound(c, "borrower")
		case errors.Is(err, loans.ErrBookUnavailable):
			respondConflict(c, "book is not available for loan")
		case errors.Is(err, loans.ErrSelfLoan):
			respondBadRequest(c, "cannot lend a book to yourself")
		default:
			respondInternalError(c, err, "create loan")
		}
		return
	}

	respondCreated(c, loan)
}

// List returns one page of loans where the caller is the lender.
func (lc *LoansController) List(c *gin.Context) {
	query := loans.Query{
		Page:         parsePositiveQueryInt(c, "page", 1),
		Limit:        parsePositiveQueryInt(c, "limit", loans.DefaultLimit),
		ReturnedOnly: c.Query("returnedOnly") == "true",
	}

	items, total, err := lc.repo.ListLent(GetUserID(c), query)
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(items, total, query.Page, clampLoanLimit(query.Limit)))
}

// ListBorrowed returns one page of loans where the caller is the borrower.
func (lc *LoansController) ListBorrowed(c *gin.Context) {
	query := loans.Query{
		Page:  parsePositiveQueryInt(c, "page", 1),
		Limit: parsePositiveQueryInt(c, "limit", loans.DefaultLimit),
	}

	items, total, err := lc.repo.ListBorrowed(GetUserID(c), query)
	if err != nil {
		respondInternalError(c, err, "list borrowed loans")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(items, total, query.Page, clampLoanLimit(query.Limit)))
}

// Get returns one of the caller's loans by ID.
func (lc *LoansController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.repo.GetLoan(GetUserID(c), id)
	if err != nil {
		if errors.Is(err, loans.ErrNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "get loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Update applies a partial update to one of the caller's loans.
func (lc *LoansController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	loan, err := lc.repo.UpdateLoan(GetUserID(c), id, loans.Patch{
		BorrowedFromID: req.BorrowedFromID,
		ReturnDate:     req.ReturnDate,
	})
	if err != nil {
		if errors.Is(err, loans.ErrNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "update loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Return marks an outstanding loan returned and restores the book's
// availability.
func (lc *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.repo.ReturnLoan(GetUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrNotFound):
			respondNotFound(c, "loan")
		case errors.Is(err, loans.ErrAlreadyReturned):
			respondConflict(c, "loan is already returned")
		default:
			respondInternalError(c, err, "return loan")
		}
		return
	}

	c.JSON(http.StatusOK, loan)
}

// Delete removes one of the caller's loans, restoring availability if the
// loan was still outstanding.
func (lc *LoansController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := lc.repo.DeleteLoan(GetUserID(c), id)
	if err != nil {
		if errors.Is(err, loans.ErrNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "delete loan")
		return
	}

	respondSuccess(c, "loan deleted")
}

func clampLoanLimit(limit int) int {
	if limit > loans.MaxLimit {
		return loans.MaxLimit
	}
	return limit
}
