package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylibrary/internal/database/books"
	"github.com/mrlokans/mylibrary/internal/entities"
	"github.com/mrlokans/mylibrary/internal/tasks"
)

// BooksController handles library and catalog book operations. All reads and
// writes are scoped to the session user.
type BooksController struct {
	repo       *books.Repository
	taskClient *tasks.Client
	enrich     bool
}

// NewBooksController creates a new BooksController. The task client is
// optional; when present and enrichment is on, newly added books get an
// enrichment task enqueued.
func NewBooksController(repo *books.Repository, taskClient *tasks.Client, enrich bool) *BooksController {
	return &BooksController{
		repo:       repo,
		taskClient: taskClient,
		enrich:     enrich,
	}
}

type bookPayload struct {
	Title         string `json:"title" binding:"required"`
	AuthorName    string `json:"author_name"`
	AuthorSurname string `json:"author_surname"`
	AuthorWebsite string `json:"author_website"`
	Year          int    `json:"year"`
	NumberOfPages int    `json:"number_of_pages"`
	Cover         string `json:"cover"`
	About         string `json:"about"`
	ReadStatus    int    `json:"read_status"`
	Rating        int    `json:"rating"`
	Comments      string `json:"comments"`
	ReleaseDate   string `json:"release_date"`
}

func parseReleaseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// respondRepoError maps repository sentinel errors onto HTTP statuses.
func respondRepoError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, books.ErrNoActiveUser):
		respondError(c, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, books.ErrBookNotFound):
		respondNotFound(c, "book")
	case errors.Is(err, books.ErrNotInLibrary):
		respondNotFound(c, "book in library")
	case errors.Is(err, books.ErrRatingOutOfRange),
		errors.Is(err, books.ErrInvalidReadStatus):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// ListBooks returns every catalog book annotated with the session user's
// read status and rating.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	rows, err := bc.repo.ListBooks(GetUserID(c))
	if err != nil {
		respondRepoError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": rows, "count": len(rows)})
}

// GetBook returns a single annotated book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.repo.GetBook(GetUserID(c), id)
	if err != nil {
		respondRepoError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// AddBook creates the catalog row (and its author) if needed and links the
// book into the session user's library. Adding a book that is already in the
// catalog reuses the existing row.
// POST /api/books
func (bc *BooksController) AddBook(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	releaseDate, err := parseReleaseDate(payload.ReleaseDate)
	if err != nil {
		respondBadRequest(c, "release_date must be YYYY-MM-DD")
		return
	}

	userID := GetUserID(c)
	bookID, err := bc.repo.AddBook(userID, books.AddBookInput{
		Title:         payload.Title,
		AuthorName:    payload.AuthorName,
		AuthorSurname: payload.AuthorSurname,
		AuthorWebsite: payload.AuthorWebsite,
		Year:          payload.Year,
		NumberOfPages: payload.NumberOfPages,
		Cover:         payload.Cover,
		About:         payload.About,
		ReadStatus:    entities.ReadStatus(payload.ReadStatus),
		Rating:        payload.Rating,
		Comments:      payload.Comments,
		ReleaseDate:   releaseDate,
	})
	if err != nil {
		respondRepoError(c, err, "add book")
		return
	}

	bc.enqueueEnrichment(bookID)

	book, err := bc.repo.GetBook(userID, bookID)
	if err != nil {
		respondRepoError(c, err, "load created book")
		return
	}
	respondCreated(c, book)
}

// UpdateBook rewrites the catalog fields and the session user's association.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "title is required")
		return
	}

	releaseDate, err := parseReleaseDate(payload.ReleaseDate)
	if err != nil {
		respondBadRequest(c, "release_date must be YYYY-MM-DD")
		return
	}

	userID := GetUserID(c)
	err = bc.repo.UpdateBook(userID, id, books.UpdateBookInput{
		Title:         payload.Title,
		Year:          payload.Year,
		NumberOfPages: payload.NumberOfPages,
		About:         payload.About,
		ReadStatus:    entities.ReadStatus(payload.ReadStatus),
		Rating:        payload.Rating,
		Comments:      payload.Comments,
		ReleaseDate:   releaseDate,
	})
	if err != nil {
		respondRepoError(c, err, "update book")
		return
	}

	book, err := bc.repo.GetBook(userID, id)
	if err != nil {
		respondRepoError(c, err, "load updated book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// RemoveBook takes the book out of the session user's library. The catalog
// row and other users' associations are untouched.
// DELETE /api/books/:id
func (bc *BooksController) RemoveBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.repo.RemoveBook(GetUserID(c), id); err != nil {
		respondRepoError(c, err, "remove book")
		return
	}
	respondSuccess(c, "book removed from library")
}

type statusPayload struct {
	ReadStatus int `json:"read_status"`
}

// SetReadStatus updates only the session user's read status for a book.
// PATCH /api/books/:id/status
func (bc *BooksController) SetReadStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "read_status is required")
		return
	}

	err := bc.repo.SetReadStatus(GetUserID(c), id, entities.ReadStatus(payload.ReadStatus))
	if err != nil {
		respondRepoError(c, err, "set read status")
		return
	}
	respondSuccess(c, "read status updated")
}

type ratingPayload struct {
	Rating int `json:"rating"`
}

// SetRating updates only the session user's rating for a book.
// PATCH /api/books/:id/rating
func (bc *BooksController) SetRating(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload ratingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}

	if err := bc.repo.SetRating(GetUserID(c), id, payload.Rating); err != nil {
		respondRepoError(c, err, "set rating")
		return
	}
	respondSuccess(c, "rating updated")
}

// Favorites returns the session user's books rated 4 or higher.
// GET /api/books/favorites
func (bc *BooksController) Favorites(c *gin.Context) {
	rows, err := bc.repo.Favorites(GetUserID(c))
	if err != nil {
		respondRepoError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": rows, "count": len(rows)})
}

// Unread returns books the session user has not read yet.
// GET /api/books/unread
func (bc *BooksController) Unread(c *gin.Context) {
	rows, err := bc.repo.Unread(GetUserID(c))
	if err != nil {
		respondRepoError(c, err, "list unread")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": rows, "count": len(rows)})
}

// Upcoming returns want-to-read books whose release date is today or later.
// GET /api/books/upcoming
func (bc *BooksController) Upcoming(c *gin.Context) {
	rows, err := bc.repo.Upcoming(GetUserID(c))
	if err != nil {
		respondRepoError(c, err, "list upcoming")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": rows, "count": len(rows)})
}

func (bc *BooksController) enqueueEnrichment(bookID uint) {
	if bc.taskClient == nil || !bc.enrich {
		return
	}
	if _, err := bc.taskClient.Add(tasks.EnrichBookTask{BookID: bookID}).Save(); err != nil {
		// Enrichment is best effort; the book is already saved.
		log.Printf("Failed to enqueue enrichment for book %d: %v", bookID, err)
	}
}
