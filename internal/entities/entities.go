package entities

import (
	"time"
)

// ReadingStatus tracks where a book sits in the owner's reading flow.
type ReadingStatus string

const (
	StatusToRead  ReadingStatus = "TO_READ"
	StatusReading ReadingStatus = "READING"
	StatusRead    ReadingStatus = "READ"
)

// ValidStatus reports whether s is one of the known reading statuses.
func ValidStatus(s ReadingStatus) bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead:
		return true
	}
	return false
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string `gorm:"size:191" json:"-"`

	// Optional profile fields
	FavoriteBook      string `gorm:"size:256" json:"favorite_book,omitempty"`
	FavoriteAuthor    string `gorm:"size:256" json:"favorite_author,omitempty"`
	FavoriteGenre     string `gorm:"size:100" json:"favorite_genre,omitempty"`
	YearlyReadingGoal int    `json:"yearly_reading_goal,omitempty"`
	Bio               string `gorm:"type:text" json:"bio,omitempty"`
	AvatarURL         string `gorm:"size:2048" json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	UserID           uint          `gorm:"index" json:"user_id"`
	Title            string        `gorm:"index;size:512" json:"title"`
	Author           string        `gorm:"index;size:256" json:"author"`
	Publisher        string        `gorm:"size:256" json:"publisher,omitempty"`
	Genre            string        `gorm:"size:100" json:"genre,omitempty"`
	Status           ReadingStatus `gorm:"size:20;default:'TO_READ'" json:"status"`
	Progress         int           `gorm:"default:0" json:"progress"`
	AvailableForLoan bool          `gorm:"default:true" json:"available_for_loan"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Loan struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	BookID         uint `gorm:"index" json:"book_id"`
	LentByID       uint `gorm:"index" json:"lent_by_id"`
	BorrowedFromID uint `gorm:"index" json:"borrowed_from_id"`

	BorrowedDate time.Time  `json:"borrowed_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	IsReturned   bool       `gorm:"default:false" json:"is_returned"`

	Book         Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	LentBy       User `gorm:"foreignKey:LentByID" json:"lent_by,omitempty"`
	BorrowedFrom User `gorm:"foreignKey:BorrowedFromID" json:"borrowed_from,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Loan) TableName() string {
	return "loans"
}
