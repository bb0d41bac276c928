package entities

import (
	"strings"
	"time"
)

// ReadStatus describes a user's relationship with a catalog book.
//
// The stored integer codes are fixed: 0 means the book is not in the user's
// library at all, 1 means the user has read it, 2 means the user owns it but
// has not read it yet, and 3 means the user wants to read it. Code 2 never
// means "currently reading".
type ReadStatus int

const (
	StatusNone       ReadStatus = 0
	StatusRead       ReadStatus = 1
	StatusUnread     ReadStatus = 2
	StatusWantToRead ReadStatus = 3
)

// Valid reports whether s is one of the known status codes.
func (s ReadStatus) Valid() bool {
	return s >= StatusNone && s <= StatusWantToRead
}

func (s ReadStatus) String() string {
	switch s {
	case StatusNone:
		return "Not in Library"
	case StatusRead:
		return "Read"
	case StatusUnread:
		return "Not Read"
	case StatusWantToRead:
		return "Want to Read"
	default:
		return "Unknown"
	}
}

// Rating bounds. 0 means "unrated".
const (
	MinRating = 0
	MaxRating = 5
)

type Author struct {
	ID        uint      `gorm:"primaryKey;column:author_id" json:"author_id"`
	Name      string    `gorm:"size:128;uniqueIndex:idx_authors_name_surname" json:"name"`
	Surname   string    `gorm:"size:128;uniqueIndex:idx_authors_name_surname" json:"surname"`
	Website   string    `gorm:"size:512" json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "Name Surname" for display.
func (a Author) FullName() string {
	return strings.TrimSpace(a.Name + " " + a.Surname)
}

// Book is a shared catalog row. Title, year, pages, cover and about are the
// same for every user; per-user state lives in UserBook.
type Book struct {
	ID            uint      `gorm:"primaryKey;column:book_id" json:"book_id"`
	AuthorID      uint      `gorm:"index" json:"author_id"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Year          int       `json:"year"`
	NumberOfPages int       `json:"number_of_pages"`
	Cover         string    `gorm:"size:1024" json:"cover,omitempty"`
	About         string    `gorm:"type:text" json:"about,omitempty"`
	Author        Author    `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserBook links a user to a catalog book together with the user's private
// reading state. (user_id, book_id) is unique to support upsert-on-conflict.
type UserBook struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"uniqueIndex:idx_user_books_user_book" json:"user_id"`
	BookID      uint       `gorm:"uniqueIndex:idx_user_books_user_book" json:"book_id"`
	ReadStatus  ReadStatus `gorm:"default:0" json:"read_status"`
	Rating      int        `gorm:"default:0" json:"rating"`
	Comments    string     `gorm:"type:text" json:"comments,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LibraryBook is a catalog book annotated with the acting user's state.
// Rows come out of the books LEFT JOIN user_books query; status and rating
// default to zero when the user has no association.
type LibraryBook struct {
	BookID        uint       `json:"book_id"`
	AuthorID      uint       `json:"author_id"`
	Title         string     `json:"title"`
	AuthorName    string     `json:"author_name"`
	Year          int        `json:"year"`
	NumberOfPages int        `json:"number_of_pages"`
	Cover         string     `json:"cover,omitempty"`
	About         string     `json:"about,omitempty"`
	ReadStatus    ReadStatus `json:"read_status"`
	Rating        int        `json:"rating"`
	Comments      string     `json:"comments,omitempty"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
}

// RatingStars renders the rating as five stars for list views.
func (b LibraryBook) RatingStars() string {
	if b.Rating == 0 {
		return "Not Rated"
	}
	var sb strings.Builder
	for i := 0; i < MaxRating; i++ {
		if i < b.Rating {
			sb.WriteString("★")
		} else {
			sb.WriteString("☆")
		}
	}
	return sb.String()
}
