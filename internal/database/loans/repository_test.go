package loans

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_loans_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Book{}, &entities.Loan{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *entities.User {
	t.Helper()
	user := &entities.User{Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBook(t *testing.T, db *gorm.DB, ownerID uint, title string) *entities.Book {
	t.Helper()
	book := &entities.Book{
		UserID:           ownerID,
		Title:            title,
		Author:           "Author",
		Status:           entities.StatusToRead,
		AvailableForLoan: true,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func bookAvailability(t *testing.T, db *gorm.DB, bookID uint) bool {
	t.Helper()
	var book entities.Book
	require.NoError(t, db.First(&book, bookID).Error)
	return book.AvailableForLoan
}

func TestRepository_CreateLoan(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	loan, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)

	require.NoError(t, err)
	assert.NotZero(t, loan.ID)
	assert.False(t, loan.IsReturned)
	assert.Nil(t, loan.ReturnDate)
	assert.WithinDuration(t, time.Now(), loan.BorrowedDate, 5*time.Second)
	assert.Equal(t, "Dune", loan.Book.Title)
	assert.Equal(t, "Bea", loan.BorrowedFrom.Name)

	assert.False(t, bookAvailability(t, db, book.ID))
}

func TestRepository_CreateLoan_BookAlreadyLent(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	other := seedUser(t, db, "Caio", "caio@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	_, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	require.NoError(t, err)

	// The conditional availability update rejects the second loan.
	_, err = repo.CreateLoan(lender.ID, book.ID, other.ID)
	assert.ErrorIs(t, err, ErrBookUnavailable)
}

func TestRepository_CreateLoan_ForeignBook(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, borrower.ID, "Not Yours")

	_, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_CreateLoan_SelfLoan(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	_, err := repo.CreateLoan(lender.ID, book.ID, lender.ID)
	assert.ErrorIs(t, err, ErrSelfLoan)
	assert.True(t, bookAvailability(t, db, book.ID))
}

func TestRepository_CreateLoan_UnknownBorrower(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	_, err := repo.CreateLoan(lender.ID, book.ID, 999)
	assert.ErrorIs(t, err, ErrBorrowerNotFound)
	assert.True(t, bookAvailability(t, db, book.ID))
}

func TestRepository_ReturnLoan(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	loan, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	require.NoError(t, err)

	returned, err := repo.ReturnLoan(lender.ID, loan.ID)
	require.NoError(t, err)
	assert.True(t, returned.IsReturned)
	require.NotNil(t, returned.ReturnDate)
	assert.WithinDuration(t, time.Now(), *returned.ReturnDate, 5*time.Second)

	assert.True(t, bookAvailability(t, db, book.ID))
}

func TestRepository_ReturnLoan_Terminal(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	loan, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	require.NoError(t, err)

	_, err = repo.ReturnLoan(lender.ID, loan.ID)
	require.NoError(t, err)

	// No transition back from returned.
	_, err = repo.ReturnLoan(lender.ID, loan.ID)
	assert.ErrorIs(t, err, ErrAlreadyReturned)
}

func TestRepository_ReturnLoan_OnlyLender(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	loan, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	require.NoError(t, err)

	// The borrower cannot mutate the lender's loan.
	_, err = repo.ReturnLoan(borrower.ID, loan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteLoan_OutstandingRestoresAvailability(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	loan, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	require.NoError(t, err)
	require.False(t, bookAvailability(t, db, book.ID))

	require.NoError(t, repo.DeleteLoan(lender.ID, loan.ID))

	assert.True(t, bookAvailability(t, db, book.ID))
	_, err = repo.GetLoan(lender.ID, loan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_DeleteLoan_Returned(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	lender := seedUser(t, db, "Ana", "ana@gmail.com")
	borrower := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, lender.ID, "Dune")

	loan, err := repo.CreateLoan(lender.ID, book.ID, borrower.ID)
	require.NoError(t, err)
	_, err = repo.ReturnLoan(lender.ID, loan.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteLoan(lender.ID, loan.ID))
	assert.True(t, bookAvailability(t, db, book.ID))
}

func TestRepository_ListLentAndBorrowed(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	ana := seedUser(t, db, "Ana", "ana@gmail.com")
	bea := seedUser(t, db, "Bea", "bea@gmail.com")

	for i := 0; i < 3; i++ {
		book := seedBook(t, db, ana.ID, "Ana's book")
		_, err := repo.CreateLoan(ana.ID, book.ID, bea.ID)
		require.NoError(t, err)
	}
	beaBook := seedBook(t, db, bea.ID, "Bea's book")
	_, err := repo.CreateLoan(bea.ID, beaBook.ID, ana.ID)
	require.NoError(t, err)

	lent, total, err := repo.ListLent(ana.ID, Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, lent, 3)

	borrowed, total, err := repo.ListBorrowed(ana.ID, Query{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Bea's book", borrowed[0].Book.Title)
}

func TestRepository_ListLent_Pagination(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	ana := seedUser(t, db, "Ana", "ana@gmail.com")
	bea := seedUser(t, db, "Bea", "bea@gmail.com")

	for i := 0; i < 12; i++ {
		book := seedBook(t, db, ana.ID, "Book")
		_, err := repo.CreateLoan(ana.ID, book.ID, bea.ID)
		require.NoError(t, err)
	}

	loans, total, err := repo.ListLent(ana.ID, Query{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)
	assert.Len(t, loans, 5)
}

func TestRepository_UpdateLoan(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	ana := seedUser(t, db, "Ana", "ana@gmail.com")
	bea := seedUser(t, db, "Bea", "bea@gmail.com")
	caio := seedUser(t, db, "Caio", "caio@gmail.com")
	book := seedBook(t, db, ana.ID, "Dune")

	loan, err := repo.CreateLoan(ana.ID, book.ID, bea.ID)
	require.NoError(t, err)

	updated, err := repo.UpdateLoan(ana.ID, loan.ID, Patch{BorrowedFromID: &caio.ID})
	require.NoError(t, err)
	assert.Equal(t, caio.ID, updated.BorrowedFromID)
	assert.Equal(t, "Caio", updated.BorrowedFrom.Name)
}

func TestRepository_GetLoan_ForeignLender(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	ana := seedUser(t, db, "Ana", "ana@gmail.com")
	bea := seedUser(t, db, "Bea", "bea@gmail.com")
	book := seedBook(t, db, ana.ID, "Dune")

	loan, err := repo.CreateLoan(ana.ID, book.ID, bea.ID)
	require.NoError(t, err)

	_, err = repo.GetLoan(bea.ID, loan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
