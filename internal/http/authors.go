package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylibrary/internal/database/authors"
)

// AuthorsController handles author catalog operations.
type AuthorsController struct {
	repo *authors.Repository
}

// NewAuthorsController creates a new AuthorsController.
func NewAuthorsController(repo *authors.Repository) *AuthorsController {
	return &AuthorsController{repo: repo}
}

// List returns all authors ordered by surname.
// GET /api/authors
func (ac *AuthorsController) List(c *gin.Context) {
	rows, err := ac.repo.List()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": rows, "count": len(rows)})
}

type authorPayload struct {
	Name    string `json:"name" binding:"required"`
	Surname string `json:"surname" binding:"required"`
	Website string `json:"website"`
}

// Create adds a new author. Name and surname pairs are unique; creating an
// existing pair returns the existing row.
// POST /api/authors
func (ac *AuthorsController) Create(c *gin.Context) {
	var payload authorPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "name and surname are required")
		return
	}

	author, err := ac.repo.FindOrCreate(
		strings.TrimSpace(payload.Name),
		strings.TrimSpace(payload.Surname),
		strings.TrimSpace(payload.Website),
	)
	if err != nil {
		respondInternalError(c, err, "create author")
		return
	}
	respondCreated(c, author)
}

// Search finds authors by a partial name or surname match.
// GET /api/authors/search?q=term
func (ac *AuthorsController) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	rows, err := ac.repo.Search(term)
	if err != nil {
		respondInternalError(c, err, "search authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": rows, "count": len(rows)})
}

// Favorites returns authors of books the session user rated 4 or higher.
// GET /api/authors/favorites
func (ac *AuthorsController) Favorites(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 {
		respondError(c, http.StatusUnauthorized, "not authenticated")
		return
	}

	rows, err := ac.repo.Favorites(userID)
	if err != nil {
		respondInternalError(c, err, "list favorite authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": rows, "count": len(rows)})
}
