package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/mylibrary/internal/database"
	"github.com/mrlokans/mylibrary/internal/database/authors"
	"github.com/mrlokans/mylibrary/internal/database/books"
)

func setupCSRFRouter(t *testing.T) (*gin.Engine, *books.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := books.NewRepository(db.DB)
	router := NewRouter(RouterConfig{
		Database:       db,
		BooksRepo:      repo,
		AuthorsRepo:    authors.NewRepository(db.DB),
		CSRFSecret:     []byte("0123456789abcdef0123456789abcdef"),
		FallbackUserID: testUserID,
		Version:        "test",
	})
	return router, repo
}

func TestMutationWithoutCSRFTokenIsRejected(t *testing.T) {
	router, repo := setupCSRFRouter(t)

	body := bytes.NewBufferString(`{"title":"Dune","author_name":"Frank","author_surname":"Herbert"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/books", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "CSRF token invalid or missing")
	assert.NotContains(t, w.Body.String(), "book_id")

	listed, err := repo.ListBooks(testUserID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSafeMethodsBypassCSRFCheck(t *testing.T) {
	router, _ := setupCSRFRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
