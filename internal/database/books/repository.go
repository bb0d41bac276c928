// Package books provides database operations for the shared book catalog and
// the per-user library association.
//
// Catalog rows (title, year, pages, about, cover) are shared between all
// users. Read status, rating, comments and release date live in user_books,
// keyed by (user_id, book_id) with upsert-on-conflict semantics. Every
// user-scoped operation takes the acting user ID explicitly; there is no
// process-wide current user.
package books

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/mylibrary/internal/database/authors"
	"github.com/mrlokans/mylibrary/internal/entities"
)

var (
	ErrNoActiveUser      = errors.New("no active user")
	ErrBookNotFound      = errors.New("book not found")
	ErrNotInLibrary      = errors.New("book is not in the user's library")
	ErrRatingOutOfRange  = errors.New("rating must be between 0 and 5")
	ErrInvalidReadStatus = errors.New("unknown read status code")
)

// annotatedColumns selects catalog fields joined with the acting user's
// association, defaulting status and rating to 0 when no row exists.
const annotatedColumns = "books.book_id, books.author_id, books.title, books.year, " +
	"books.number_of_pages, books.cover, books.about, " +
	"(authors.name || ' ' || authors.surname) AS author_name, " +
	"COALESCE(user_books.read_status, 0) AS read_status, " +
	"COALESCE(user_books.rating, 0) AS rating, " +
	"COALESCE(user_books.comments, '') AS comments, " +
	"user_books.release_date"

// Repository handles catalog and user-library database operations.
type Repository struct {
	db      *gorm.DB
	authors *authors.Repository
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:      db,
		authors: authors.NewRepository(db),
	}
}

// AddBookInput carries everything needed to add a book to a user's library.
// The author is referenced by exact (name, surname) and created when absent.
type AddBookInput struct {
	Title         string
	AuthorName    string
	AuthorSurname string
	AuthorWebsite string
	Year          int
	NumberOfPages int
	Cover         string
	About         string
	ReadStatus    entities.ReadStatus
	Rating        int
	Comments      string
	ReleaseDate   *time.Time
}

// UpdateBookInput carries the editable fields of an existing library entry.
// Catalog fields apply to every user; the rest only to the acting user.
type UpdateBookInput struct {
	Title         string
	Year          int
	NumberOfPages int
	About         string
	ReadStatus    entities.ReadStatus
	Rating        int
	Comments      string
	ReleaseDate   *time.Time
}

func validateUserState(status entities.ReadStatus, rating int) error {
	if !status.Valid() {
		return ErrInvalidReadStatus
	}
	if rating < entities.MinRating || rating > entities.MaxRating {
		return ErrRatingOutOfRange
	}
	return nil
}

// annotated builds the books LEFT JOIN user_books query for one user.
func (r *Repository) annotated(userID uint) *gorm.DB {
	return r.db.Table("books").
		Select(annotatedColumns).
		Joins("JOIN authors ON books.author_id = authors.author_id").
		Joins("LEFT JOIN user_books ON books.book_id = user_books.book_id AND user_books.user_id = ?", userID)
}

// ListBooks returns every catalog book annotated with the user's status and
// rating, ordered by title.
func (r *Repository) ListBooks(userID uint) ([]entities.LibraryBook, error) {
	if userID == 0 {
		return nil, ErrNoActiveUser
	}

	var rows []entities.LibraryBook
	err := r.annotated(userID).Order("books.title ASC").Scan(&rows).Error
	return rows, err
}

// GetBook returns a single annotated catalog book.
func (r *Repository) GetBook(userID, bookID uint) (*entities.LibraryBook, error) {
	if userID == 0 {
		return nil, ErrNoActiveUser
	}

	var row entities.LibraryBook
	result := r.annotated(userID).Where("books.book_id = ?", bookID).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrBookNotFound
	}
	return &row, nil
}

// AddBook adds a book to the acting user's library. The catalog row is
// reused when (title, author, year) already exists, otherwise inserted, and
// the user association is upserted, all inside a single transaction so a
// failure leaves nothing behind.
func (r *Repository) AddBook(userID uint, input AddBookInput) (uint, error) {
	if userID == 0 {
		return 0, ErrNoActiveUser
	}
	if err := validateUserState(input.ReadStatus, input.Rating); err != nil {
		return 0, err
	}

	var bookID uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		author, err := authors.NewRepository(tx).FindOrCreate(
			input.AuthorName, input.AuthorSurname, input.AuthorWebsite)
		if err != nil {
			return err
		}

		var book entities.Book
		err = tx.Where("title = ? AND author_id = ? AND year = ?",
			input.Title, author.ID, input.Year).First(&book).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			book = entities.Book{
				AuthorID:      author.ID,
				Title:         input.Title,
				Year:          input.Year,
				NumberOfPages: input.NumberOfPages,
				Cover:         input.Cover,
				About:         input.About,
			}
			if err := tx.Create(&book).Error; err != nil {
				return fmt.Errorf("create catalog row: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("lookup catalog row: %w", err)
		}
		bookID = book.ID

		return upsertAssociation(tx, entities.UserBook{
			UserID:      userID,
			BookID:      book.ID,
			ReadStatus:  input.ReadStatus,
			Rating:      input.Rating,
			Comments:    input.Comments,
			ReleaseDate: input.ReleaseDate,
		}, []string{"read_status", "rating", "comments", "release_date", "updated_at"})
	})
	if err != nil {
		return 0, err
	}
	return bookID, nil
}

// UpdateBook updates the shared catalog fields and the acting user's
// association in the same transaction.
func (r *Repository) UpdateBook(userID, bookID uint, input UpdateBookInput) error {
	if userID == 0 {
		return ErrNoActiveUser
	}
	if err := validateUserState(input.ReadStatus, input.Rating); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{}).
			Where("book_id = ?", bookID).
			Updates(map[string]any{
				"title":           input.Title,
				"year":            input.Year,
				"number_of_pages": input.NumberOfPages,
				"about":           input.About,
			})
		if result.Error != nil {
			return fmt.Errorf("update catalog row: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrBookNotFound
		}

		return upsertAssociation(tx, entities.UserBook{
			UserID:      userID,
			BookID:      bookID,
			ReadStatus:  input.ReadStatus,
			Rating:      input.Rating,
			Comments:    input.Comments,
			ReleaseDate: input.ReleaseDate,
		}, []string{"read_status", "rating", "comments", "release_date", "updated_at"})
	})
}

// RemoveBook deletes only the acting user's association row. The catalog
// row and other users' associations are untouched.
func (r *Repository) RemoveBook(userID, bookID uint) error {
	if userID == 0 {
		return ErrNoActiveUser
	}

	result := r.db.
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.UserBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInLibrary
	}
	return nil
}

// ensureCatalogRow guards association writes against book IDs that have no
// catalog row, which would otherwise succeed and leave an orphan association.
func (r *Repository) ensureCatalogRow(bookID uint) error {
	var count int64
	err := r.db.Model(&entities.Book{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBookNotFound
	}
	return nil
}

// SetReadStatus upserts the user's read status for a book.
func (r *Repository) SetReadStatus(userID, bookID uint, status entities.ReadStatus) error {
	if userID == 0 {
		return ErrNoActiveUser
	}
	if !status.Valid() {
		return ErrInvalidReadStatus
	}
	if err := r.ensureCatalogRow(bookID); err != nil {
		return err
	}

	return upsertAssociation(r.db, entities.UserBook{
		UserID:     userID,
		BookID:     bookID,
		ReadStatus: status,
	}, []string{"read_status", "updated_at"})
}

// SetRating upserts the user's rating for a book. Values outside [0,5] are
// rejected before reaching storage; 0 clears the rating.
func (r *Repository) SetRating(userID, bookID uint, rating int) error {
	if userID == 0 {
		return ErrNoActiveUser
	}
	if rating < entities.MinRating || rating > entities.MaxRating {
		return ErrRatingOutOfRange
	}
	if err := r.ensureCatalogRow(bookID); err != nil {
		return err
	}

	return upsertAssociation(r.db, entities.UserBook{
		UserID: userID,
		BookID: bookID,
		Rating: rating,
	}, []string{"rating", "updated_at"})
}

// SetCover updates the catalog-wide cover path. It affects all users.
func (r *Repository) SetCover(bookID uint, coverPath string) error {
	result := r.db.Model(&entities.Book{}).
		Where("book_id = ?", bookID).
		Update("cover", coverPath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Favorites returns the user's books rated 4 or more, best first.
func (r *Repository) Favorites(userID uint) ([]entities.LibraryBook, error) {
	if userID == 0 {
		return nil, ErrNoActiveUser
	}

	var rows []entities.LibraryBook
	err := r.annotated(userID).
		Where("user_books.rating >= ?", 4).
		Order("user_books.rating DESC, books.title ASC").
		Scan(&rows).Error
	return rows, err
}

// Unread returns catalog books the user has not read yet: no association at
// all or an explicit "not read" status.
func (r *Repository) Unread(userID uint) ([]entities.LibraryBook, error) {
	if userID == 0 {
		return nil, ErrNoActiveUser
	}

	var rows []entities.LibraryBook
	err := r.annotated(userID).
		Where("COALESCE(user_books.read_status, 0) IN ?",
			[]entities.ReadStatus{entities.StatusNone, entities.StatusUnread}).
		Order("books.title ASC").
		Scan(&rows).Error
	return rows, err
}

// Upcoming returns want-to-read books whose release date is today or later,
// soonest first.
func (r *Repository) Upcoming(userID uint) ([]entities.LibraryBook, error) {
	if userID == 0 {
		return nil, ErrNoActiveUser
	}

	now := time.Now()
	// Midnight in local time, so a book releasing today stays listed for the
	// whole calendar day regardless of timezone offset.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var rows []entities.LibraryBook
	err := r.annotated(userID).
		Where("user_books.release_date >= ? AND user_books.read_status = ?",
			today, entities.StatusWantToRead).
		Order("user_books.release_date ASC").
		Scan(&rows).Error
	return rows, err
}

// ListCatalog returns every raw catalog row. Used by the cover prewarm and
// enrichment tasks, which are not user-scoped.
func (r *Repository) ListCatalog() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").Order("book_id ASC").Find(&books).Error
	return books, err
}

// GetCatalogBook returns a raw catalog row without user annotation.
func (r *Repository) GetCatalogBook(bookID uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").First(&book, bookID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateCatalogFields persists enrichment results: only the listed columns
// are written.
func (r *Repository) UpdateCatalogFields(bookID uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&entities.Book{}).
		Where("book_id = ?", bookID).
		Updates(fields).Error
}

func upsertAssociation(tx *gorm.DB, row entities.UserBook, updateColumns []string) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert user book: %w", err)
	}
	return nil
}
