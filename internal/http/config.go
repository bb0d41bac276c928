package http

import (
	"github.com/mrlokans/mylibrary/internal/auth"
	"github.com/mrlokans/mylibrary/internal/covers"
	"github.com/mrlokans/mylibrary/internal/database"
	"github.com/mrlokans/mylibrary/internal/database/authors"
	"github.com/mrlokans/mylibrary/internal/database/books"
	"github.com/mrlokans/mylibrary/internal/tasks"
)

// RouterConfig carries every dependency the router needs. Optional fields
// (cover cache, task client) disable their endpoints when nil.
type RouterConfig struct {
	Database    *database.Database
	BooksRepo   *books.Repository
	AuthorsRepo *authors.Repository

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool

	// FallbackUserID is injected as the acting user when no auth middleware
	// is configured. Used by tests.
	FallbackUserID uint

	CoverCache *covers.Cache

	TaskClient        *tasks.Client
	EnrichmentEnabled bool

	Version string
}
