// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/mylibrary/internal/tasks"
)

// CoverPrewarmScheduler periodically enqueues a cover prewarm task so the
// cache stays warm as the catalog grows.
type CoverPrewarmScheduler struct {
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCoverPrewarmScheduler creates a new scheduler. The schedule uses the
// standard 5-field cron syntax.
func NewCoverPrewarmScheduler(taskClient *tasks.Client, schedule string) *CoverPrewarmScheduler {
	return &CoverPrewarmScheduler{
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CoverPrewarmScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Cover prewarm scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.enqueue()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cover prewarm scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *CoverPrewarmScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Cover prewarm scheduler: stopped")
}

// RunNow enqueues a prewarm immediately, outside the schedule.
func (s *CoverPrewarmScheduler) RunNow() error {
	s.enqueue()
	return nil
}

// IsRunning returns whether the scheduler is active.
func (s *CoverPrewarmScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next prewarm will be enqueued.
func (s *CoverPrewarmScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CoverPrewarmScheduler) enqueue() {
	if s.taskClient == nil {
		return
	}
	_, err := s.taskClient.Add(tasks.PrewarmCoversTask{RequestedAt: time.Now()}).Save()
	if err != nil {
		log.Printf("Cover prewarm: failed to enqueue task: %v", err)
		return
	}
	log.Printf("Cover prewarm: task enqueued")
}
