package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/mrlokans/mylibrary/internal/covers"
	"github.com/mrlokans/mylibrary/internal/database/books"
)

// PrewarmCoversTask walks the catalog and renders every cover into the
// on-disk cache so browsing never pays the scaling cost.
type PrewarmCoversTask struct {
	RequestedAt time.Time `json:"requested_at"`
}

// Config returns the queue configuration for cover prewarm tasks.
func (t PrewarmCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        PrewarmQueueName,
		MaxAttempts: PrewarmMaxAttempts,
		Backoff:     time.Minute,
		Timeout:     PrewarmTimeout,
		Retention:   retention(),
	}
}

// PrewarmCoversProcessor creates a processor function for PrewarmCoversTask.
func PrewarmCoversProcessor(booksRepo *books.Repository, cache *covers.Cache) backlite.QueueProcessor[PrewarmCoversTask] {
	return func(ctx context.Context, task PrewarmCoversTask) error {
		if cache == nil {
			return fmt.Errorf("cover cache not configured")
		}

		catalog, err := booksRepo.ListCatalog()
		if err != nil {
			return fmt.Errorf("list catalog: %w", err)
		}

		var warmed, missing, invalid int
		for _, book := range catalog {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			status, err := cache.Prewarm(book.ID, book.Cover)
			if err != nil {
				log.Printf("[TASK] Prewarm cover for book %d failed: %v", book.ID, err)
				continue
			}
			switch status {
			case covers.StatusFound:
				warmed++
			case covers.StatusMissing:
				missing++
			case covers.StatusInvalid:
				invalid++
			}
		}

		log.Printf("[TASK] Cover prewarm finished: %d cached, %d missing, %d invalid (of %d books)",
			warmed, missing, invalid, len(catalog))
		return nil
	}
}

// NewPrewarmCoversQueue creates a backlite queue for cover prewarm tasks.
func NewPrewarmCoversQueue(booksRepo *books.Repository, cache *covers.Cache) backlite.Queue {
	return backlite.NewQueue(PrewarmCoversProcessor(booksRepo, cache))
}
