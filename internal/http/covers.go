package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/mylibrary/internal/covers"
	"github.com/mrlokans/mylibrary/internal/database/books"
	"github.com/mrlokans/mylibrary/internal/tasks"
)

// CoversController serves scaled book cover images and handles cover updates.
type CoversController struct {
	cache      *covers.Cache
	repo       *books.Repository
	taskClient *tasks.Client
}

// NewCoversController creates a new CoversController. taskClient may be nil,
// in which case cover changes do not trigger a prewarm pass.
func NewCoversController(cache *covers.Cache, repo *books.Repository, taskClient *tasks.Client) *CoversController {
	return &CoversController{
		cache:      cache,
		repo:       repo,
		taskClient: taskClient,
	}
}

// GetCover serves the book's cover scaled to the display bounds. A missing or
// unreadable image file yields a generated placeholder, never an error page.
// GET /api/books/:id/cover
func (cc *CoversController) GetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.repo.GetCatalogBook(id)
	if err != nil {
		respondRepoError(c, err, "get book for cover")
		return
	}

	cachePath, rendered, err := cc.cache.GetCover(id, book.Cover)
	if err != nil {
		respondInternalError(c, err, "render cover")
		return
	}

	c.Header("X-Cover-Status", rendered.Status.String())

	if cachePath != "" {
		c.File(cachePath)
		return
	}

	// Placeholders are rendered in-memory and never cached.
	data, err := covers.EncodePNG(rendered.Image)
	if err != nil {
		respondInternalError(c, err, "encode placeholder")
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

type coverPayload struct {
	Cover string `json:"cover"`
}

// SetCover updates the catalog cover path and drops any cached renders for
// the book. The cover is shared catalog data, not per-user.
// PUT /api/books/:id/cover
func (cc *CoversController) SetCover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var payload coverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "cover is required")
		return
	}

	if err := cc.repo.SetCover(id, payload.Cover); err != nil {
		respondRepoError(c, err, "set cover")
		return
	}

	if err := cc.cache.InvalidateCover(id); err != nil {
		respondInternalError(c, err, "invalidate cover cache")
		return
	}

	if cc.taskClient != nil {
		if _, err := cc.taskClient.Add(tasks.PrewarmCoversTask{RequestedAt: time.Now()}).Save(); err != nil {
			log.Printf("Failed to enqueue cover prewarm after cover change: %v", err)
		}
	}
	respondSuccess(c, "cover updated")
}
