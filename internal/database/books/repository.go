// Package books provides database operations for the book catalog.
//
// Every query is scoped by the owning user's ID: a book belonging to
// another user is indistinguishable from a missing one.
package books

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"bookshelf/internal/entities"
)

// ErrNotFound is returned when a book is absent or owned by someone else.
var ErrNotFound = errors.New("book not found")

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sortable columns. Anything else falls back to the default ordering so
// user input never reaches the ORDER BY clause directly.
var sortableColumns = map[string]string{
	"title":      "title",
	"author":     "author",
	"status":     "status",
	"progress":   "progress",
	"created_at": "created_at",
}

// Query captures the filter, pagination and sort options for a listing.
type Query struct {
	Search    string // case-insensitive substring over title/author
	Status    entities.ReadingStatus
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Patch holds the optional fields of a partial update. Only non-nil
// fields are applied.
type Patch struct {
	Title            *string
	Author           *string
	Publisher        *string
	Genre            *string
	Status           *entities.ReadingStatus
	Progress         *int
	AvailableForLoan *bool
}

// Stats holds per-status book counts for one user.
type Stats struct {
	Total   int64 `json:"total"`
	ToRead  int64 `json:"toRead"`
	Reading int64 `json:"reading"`
	Read    int64 `json:"read"`
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook persists a new book for the given owner.
func (r *Repository) CreateBook(book *entities.Book) error {
	if book.Status == "" {
		book.Status = entities.StatusToRead
	}
	return r.db.Create(book).Error
}

// GetBook retrieves one of the owner's books by ID.
func (r *Repository) GetBook(ownerID, bookID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ? AND user_id = ?", bookID, ownerID).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// ListBooks returns one page of the owner's books plus the total count of
// matching rows independent of pagination.
func (r *Repository) ListBooks(ownerID uint, q Query) ([]entities.Book, int64, error) {
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

	tx := r.db.Model(&entities.Book{}).Where("user_id = ?", ownerID)

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if column, ok := sortableColumns[q.SortBy]; ok {
		direction := "ASC"
		if strings.EqualFold(q.SortOrder, "desc") {
			direction = "DESC"
		}
		// Secondary sort on id keeps ordering stable across pages.
		order = column + " " + direction + ", id ASC"
	}

	var books []entities.Book
	err := tx.Order(order).Offset((page - 1) * limit).Limit(limit).Find(&books).Error
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// UpdateBook applies a partial update to one of the owner's books.
func (r *Repository) UpdateBook(ownerID, bookID uint, patch Patch) (*entities.Book, error) {
	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Author != nil {
		updates["author"] = *patch.Author
	}
	if patch.Publisher != nil {
		updates["publisher"] = *patch.Publisher
	}
	if patch.Genre != nil {
		updates["genre"] = *patch.Genre
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.Progress != nil {
		updates["progress"] = *patch.Progress
	}
	if patch.AvailableForLoan != nil {
		updates["available_for_loan"] = *patch.AvailableForLoan
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.Book{}).
			Where("id = ? AND user_id = ?", bookID, ownerID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.GetBook(ownerID, bookID)
}

// DeleteBook removes one of the owner's books.
func (r *Repository) DeleteBook(ownerID, bookID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", bookID, ownerID).Delete(&entities.Book{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAllBooks returns the owner's full catalog ordered by title, for exports.
func (r *Repository) GetAllBooks(ownerID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", ownerID).Order("title ASC, id ASC").Find(&books).Error
	return books, err
}

// GetStats computes the owner's per-status book counts.
func (r *Repository) GetStats(ownerID uint) (*Stats, error) {
	stats := &Stats{}

	scoped := func() *gorm.DB {
		return r.db.Model(&entities.Book{}).Where("user_id = ?", ownerID)
	}

	if err := scoped().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", entities.StatusToRead).Count(&stats.ToRead).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", entities.StatusReading).Count(&stats.Reading).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("status = ?", entities.StatusRead).Count(&stats.Read).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
