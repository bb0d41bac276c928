package books

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylibrary/internal/database"
	"github.com/mrlokans/mylibrary/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB)
}

func duneInput() AddBookInput {
	return AddBookInput{
		Title:         "Dune",
		AuthorName:    "Frank",
		AuthorSurname: "Herbert",
		Year:          1965,
		NumberOfPages: 412,
		Cover:         "Dune.jpg",
		ReadStatus:    entities.StatusUnread,
	}
}

func TestAddBookCreatesCatalogAndAssociation(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)
	require.NotZero(t, id)

	book, err := repo.GetBook(1, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.AuthorName)
	assert.Equal(t, entities.StatusUnread, book.ReadStatus)
}

func TestAddBookDuplicateReusesCatalogRow(t *testing.T) {
	repo := setupRepo(t)

	first, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	input := duneInput()
	input.ReadStatus = entities.StatusRead
	input.Rating = 5
	second, err := repo.AddBook(1, input)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same title, author and year must reuse the catalog row")

	rows, err := repo.ListBooks(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, entities.StatusRead, rows[0].ReadStatus)
	assert.Equal(t, 5, rows[0].Rating)
}

func TestAddBookRejectsBadUserState(t *testing.T) {
	repo := setupRepo(t)

	input := duneInput()
	input.Rating = 6
	_, err := repo.AddBook(1, input)
	assert.ErrorIs(t, err, ErrRatingOutOfRange)

	input = duneInput()
	input.ReadStatus = entities.ReadStatus(9)
	_, err = repo.AddBook(1, input)
	assert.ErrorIs(t, err, ErrInvalidReadStatus)
}

func TestOperationsRequireActiveUser(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.ListBooks(0)
	assert.ErrorIs(t, err, ErrNoActiveUser)

	_, err = repo.AddBook(0, duneInput())
	assert.ErrorIs(t, err, ErrNoActiveUser)

	assert.ErrorIs(t, repo.RemoveBook(0, 1), ErrNoActiveUser)
	assert.ErrorIs(t, repo.SetRating(0, 1, 3), ErrNoActiveUser)
	assert.ErrorIs(t, repo.SetReadStatus(0, 1, entities.StatusRead), ErrNoActiveUser)
}

func TestGetBookNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetBook(1, 999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRemoveBookOnlyAffectsActingUser(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	input := duneInput()
	input.ReadStatus = entities.StatusRead
	input.Rating = 4
	_, err = repo.AddBook(2, input)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveBook(1, id))

	// The catalog row stays and the other user's association is intact.
	other, err := repo.GetBook(2, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusRead, other.ReadStatus)
	assert.Equal(t, 4, other.Rating)

	// Removing again is an error: there is nothing left to remove.
	assert.ErrorIs(t, repo.RemoveBook(1, id), ErrNotInLibrary)

	// The first user still sees the catalog row, unassociated.
	mine, err := repo.GetBook(1, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusNone, mine.ReadStatus)
	assert.Equal(t, 0, mine.Rating)
}

func TestRatingAndStatusRejectUnknownBook(t *testing.T) {
	repo := setupRepo(t)

	err := repo.SetRating(1, 999, 3)
	assert.ErrorIs(t, err, ErrBookNotFound)

	err = repo.SetReadStatus(1, 999, entities.StatusRead)
	assert.ErrorIs(t, err, ErrBookNotFound)

	var orphans int64
	require.NoError(t, repo.db.Model(&entities.UserBook{}).Count(&orphans).Error)
	assert.Zero(t, orphans, "no association rows for books without a catalog row")
}

func TestSetRatingBounds(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	assert.ErrorIs(t, repo.SetRating(1, id, -1), ErrRatingOutOfRange)
	assert.ErrorIs(t, repo.SetRating(1, id, 6), ErrRatingOutOfRange)
	require.NoError(t, repo.SetRating(1, id, 5))

	book, err := repo.GetBook(1, id)
	require.NoError(t, err)
	assert.Equal(t, 5, book.Rating)

	// Zero clears the rating.
	require.NoError(t, repo.SetRating(1, id, 0))
	book, err = repo.GetBook(1, id)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Rating)
}

func TestSetRatingKeepsReadStatus(t *testing.T) {
	repo := setupRepo(t)

	input := duneInput()
	input.ReadStatus = entities.StatusRead
	id, err := repo.AddBook(1, input)
	require.NoError(t, err)

	require.NoError(t, repo.SetRating(1, id, 3))

	book, err := repo.GetBook(1, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusRead, book.ReadStatus)
	assert.Equal(t, 3, book.Rating)
}

func TestFavoritesThreshold(t *testing.T) {
	repo := setupRepo(t)

	id1, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	input := duneInput()
	input.Title = "Children of Dune"
	input.Year = 1976
	id2, err := repo.AddBook(1, input)
	require.NoError(t, err)

	require.NoError(t, repo.SetRating(1, id1, 4))
	require.NoError(t, repo.SetRating(1, id2, 3))

	favorites, err := repo.Favorites(1)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Dune", favorites[0].Title)
}

func TestUnreadIncludesUnassociatedBooks(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	// A second user never touched the book but still sees it as unread.
	unread, err := repo.Unread(2)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, entities.StatusNone, unread[0].ReadStatus)

	require.NoError(t, repo.SetReadStatus(1, id, entities.StatusRead))

	unread, err = repo.Unread(1)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestUpcomingFiltersByDateAndStatus(t *testing.T) {
	repo := setupRepo(t)

	future := time.Now().AddDate(0, 1, 0)
	input := duneInput()
	input.Title = "Dune Messiah Reissue"
	input.ReadStatus = entities.StatusWantToRead
	input.ReleaseDate = &future
	_, err := repo.AddBook(1, input)
	require.NoError(t, err)

	past := time.Now().AddDate(0, -1, 0)
	input = duneInput()
	input.Title = "Old Release"
	input.ReadStatus = entities.StatusWantToRead
	input.ReleaseDate = &past
	_, err = repo.AddBook(1, input)
	require.NoError(t, err)

	// Future date but not marked want-to-read.
	input = duneInput()
	input.Title = "Not Wanted"
	input.ReadStatus = entities.StatusUnread
	input.ReleaseDate = &future
	_, err = repo.AddBook(1, input)
	require.NoError(t, err)

	upcoming, err := repo.Upcoming(1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Dune Messiah Reissue", upcoming[0].Title)
}

func TestUpcomingIncludesTodaysRelease(t *testing.T) {
	repo := setupRepo(t)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	input := duneInput()
	input.Title = "Releases Today"
	input.ReadStatus = entities.StatusWantToRead
	input.ReleaseDate = &today
	_, err := repo.AddBook(1, input)
	require.NoError(t, err)

	upcoming, err := repo.Upcoming(1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Releases Today", upcoming[0].Title)
}

func TestUpdateBookRewritesCatalogAndAssociation(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	err = repo.UpdateBook(1, id, UpdateBookInput{
		Title:         "Dune (Revised)",
		Year:          1966,
		NumberOfPages: 500,
		About:         "Desert planet epic",
		ReadStatus:    entities.StatusRead,
		Rating:        5,
		Comments:      "A classic",
	})
	require.NoError(t, err)

	book, err := repo.GetBook(1, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune (Revised)", book.Title)
	assert.Equal(t, 1966, book.Year)
	assert.Equal(t, entities.StatusRead, book.ReadStatus)
	assert.Equal(t, 5, book.Rating)
	assert.Equal(t, "A classic", book.Comments)
}

func TestUpdateBookMissingCatalogRow(t *testing.T) {
	repo := setupRepo(t)

	err := repo.UpdateBook(1, 999, UpdateBookInput{Title: "Ghost"})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestSetCoverIsCatalogWide(t *testing.T) {
	repo := setupRepo(t)

	id, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)
	_, err = repo.AddBook(2, duneInput())
	require.NoError(t, err)

	require.NoError(t, repo.SetCover(id, "covers/dune-new.png"))

	for _, userID := range []uint{1, 2} {
		book, err := repo.GetBook(userID, id)
		require.NoError(t, err)
		assert.Equal(t, "covers/dune-new.png", book.Cover)
	}

	assert.ErrorIs(t, repo.SetCover(999, "x.png"), ErrBookNotFound)
}

func TestListCatalogIsUnscoped(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.AddBook(1, duneInput())
	require.NoError(t, err)

	catalog, err := repo.ListCatalog()
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "Herbert", catalog[0].Author.Surname)
}
