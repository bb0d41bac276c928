package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Per-queue tuning. Cover prewarming is a bulk pass over the whole catalog
// and is never retried since the next scheduled run redoes it anyway.
// Enrichment is a single outbound OpenLibrary call and gets a few quick
// retries for transient network failures.
const (
	PrewarmQueueName   = "prewarm_covers"
	PrewarmMaxAttempts = 1
	PrewarmTimeout     = 30 * time.Minute

	EnrichQueueName   = "enrich_book"
	EnrichMaxAttempts = 3
	EnrichBackoff     = 30 * time.Second
	EnrichTimeout     = 2 * time.Minute

	retentionDuration = 24 * time.Hour
)

// Config holds the settings for the queue runner itself. Per-queue behavior
// (attempts, backoff, timeout) is declared next to each task type.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// ReleaseAfter is when stuck tasks are released back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are cleaned up. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}

// retention keeps finished tasks visible for a day, retaining payload data
// only for failures.
func retention() *backlite.Retention {
	return &backlite.Retention{
		Duration:   retentionDuration,
		OnlyFailed: false,
		Data:       &backlite.RetainData{OnlyFailed: true},
	}
}
