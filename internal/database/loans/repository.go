// Package loans provides database operations for the loan workflow.
//
// A loan moves from outstanding to returned exactly once; returning is
// terminal. Availability toggles on the underlying book happen inside the
// same transaction as the loan mutation so two concurrent loan creations
// against one book can never both succeed.
package loans

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"bookshelf/internal/entities"
)

var (
	// ErrNotFound is returned when a loan is absent or not lent by the caller.
	ErrNotFound = errors.New("loan not found")
	// ErrBookNotFound is returned when the referenced book is absent or not
	// owned by the lender.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable is returned when the book is already lent out.
	ErrBookUnavailable = errors.New("book is not available for loan")
	// ErrBorrowerNotFound is returned when the borrower does not exist.
	ErrBorrowerNotFound = errors.New("borrower not found")
	// ErrSelfLoan is returned when lender and borrower are the same user.
	ErrSelfLoan = errors.New("cannot lend a book to yourself")
	// ErrAlreadyReturned is returned on a return attempt for a returned loan.
	ErrAlreadyReturned = errors.New("loan is already returned")
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query captures pagination options for loan listings.
type Query struct {
	Page         int
	Limit        int
	ReturnedOnly bool
}

// Patch holds the optional fields of a partial loan update.
type Patch struct {
	BorrowedFromID *uint
	ReturnDate     *time.Time
}

// Repository handles all loan database operations.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// CreateLoan registers a new outstanding loan of one of the lender's books
// and marks the book unavailable. The availability flip is a conditional
// update: if another loan grabbed the book first, creation fails with
// ErrBookUnavailable.
func (r *Repository) CreateLoan(lenderID, bookID, borrowerID uint) (*entities.Loan, error) {
	if borrowerID == lenderID {
		return nil, ErrSelfLoan
	}

	var borrowerCount int64
	if err := r.db.Model(&entities.User{}).Where("id = ?", borrowerID).Count(&borrowerCount).Error; err != nil {
		return nil, err
	}
	if borrowerCount == 0 {
		return nil, ErrBorrowerNotFound
	}

	loan := &entities.Loan{
		BookID:         bookID,
		LentByID:       lenderID,
		BorrowedFromID: borrowerID,
		BorrowedDate:   r.now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		err := tx.Where("id = ? AND user_id = ?", bookID, lenderID).First(&book).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		result := tx.Model(&entities.Book{}).
			Where("id = ? AND user_id = ? AND available_for_loan = ?", bookID, lenderID, true).
			Update("available_for_loan", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBookUnavailable
		}

		return tx.Create(loan).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetLoan(lenderID, loan.ID)
}

// GetLoan retrieves one loan lent by the caller, with its relations.
func (r *Repository) GetLoan(lenderID, loanID uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("Book").Preload("LentBy").Preload("BorrowedFrom").
		Where("id = ? AND lent_by_id = ?", loanID, lenderID).
		First(&loan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// ListLent returns one page of loans where the user is the lender.
func (r *Repository) ListLent(userID uint, q Query) ([]entities.Loan, int64, error) {
	return r.list("lent_by_id", userID, q)
}

// ListBorrowed returns one page of loans where the user is the borrower.
func (r *Repository) ListBorrowed(userID uint, q Query) ([]entities.Loan, int64, error) {
	return r.list("borrowed_from_id", userID, q)
}

func (r *Repository) list(column string, userID uint, q Query) ([]entities.Loan, int64, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	tx := r.db.Model(&entities.Loan{}).Where(column+" = ?", userID)
	if q.ReturnedOnly {
		tx = tx.Where("is_returned = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var loans []entities.Loan
	err := tx.Preload("Book").Preload("LentBy").Preload("BorrowedFrom").
		Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

// ReturnLoan marks an outstanding loan returned and restores the book's
// availability. Returned loans are terminal.
func (r *Repository) ReturnLoan(lenderID, loanID uint) (*entities.Loan, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		err := tx.Where("id = ? AND lent_by_id = ?", loanID, lenderID).First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if loan.IsReturned {
			return ErrAlreadyReturned
		}

		returnedAt := r.now()
		err = tx.Model(&loan).Updates(map[string]any{
			"is_returned": true,
			"return_date": returnedAt,
		}).Error
		if err != nil {
			return err
		}

		return tx.Model(&entities.Book{}).
			Where("id = ?", loan.BookID).
			Update("available_for_loan", true).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetLoan(lenderID, loanID)
}

// UpdateLoan applies a partial update to one of the caller's loans.
func (r *Repository) UpdateLoan(lenderID, loanID uint, patch Patch) (*entities.Loan, error) {
	updates := map[string]any{}
	if patch.BorrowedFromID != nil {
		updates["borrowed_from_id"] = *patch.BorrowedFromID
	}
	if patch.ReturnDate != nil {
		updates["return_date"] = *patch.ReturnDate
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.Loan{}).
			Where("id = ? AND lent_by_id = ?", loanID, lenderID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.GetLoan(lenderID, loanID)
}

// DeleteLoan removes one of the caller's loans. Deleting an outstanding
// loan restores the book's availability first; a returned loan left the
// book available already.
func (r *Repository) DeleteLoan(lenderID, loanID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		err := tx.Where("id = ? AND lent_by_id = ?", loanID, lenderID).First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !loan.IsReturned {
			err = tx.Model(&entities.Book{}).
				Where("id = ?", loan.BookID).
				Update("available_for_loan", true).Error
			if err != nil {
				return err
			}
		}

		return tx.Delete(&loan).Error
	})
}
