// Package http exposes the library over a JSON API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylibrary/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session load so the session context survives
	// CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else if cfg.FallbackUserID != 0 {
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, cfg.FallbackUserID)
			c.Next()
		})
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	if cfg.AuthService != nil && cfg.SessionManager != nil {
		sessions := NewSessionsController(cfg.AuthService, cfg.SessionManager)
		router.POST("/api/auth/login", sessions.Login)
		router.POST("/api/auth/logout", sessions.Logout)
		router.GET("/api/auth/me", sessions.Me)
	}

	booksController := NewBooksController(cfg.BooksRepo, cfg.TaskClient, cfg.EnrichmentEnabled)
	router.GET("/api/books", booksController.ListBooks)
	router.POST("/api/books", booksController.AddBook)
	router.GET("/api/books/favorites", booksController.Favorites)
	router.GET("/api/books/unread", booksController.Unread)
	router.GET("/api/books/upcoming", booksController.Upcoming)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.RemoveBook)
	router.PATCH("/api/books/:id/status", booksController.SetReadStatus)
	router.PATCH("/api/books/:id/rating", booksController.SetRating)

	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.BooksRepo, cfg.TaskClient)
		router.GET("/api/books/:id/cover", coversController.GetCover)
		router.PUT("/api/books/:id/cover", coversController.SetCover)
	}

	authorsController := NewAuthorsController(cfg.AuthorsRepo)
	router.GET("/api/authors", authorsController.List)
	router.POST("/api/authors", authorsController.Create)
	router.GET("/api/authors/search", authorsController.Search)
	router.GET("/api/authors/favorites", authorsController.Favorites)

	return router
}
