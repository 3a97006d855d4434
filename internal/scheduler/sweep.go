// Package scheduler triggers the periodic orphan-object sweep by enqueuing
// tasks on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Yu1chiro/elib-smantiara/internal/config"
	"github.com/Yu1chiro/elib-smantiara/internal/tasks"
)

// SweepScheduler enqueues an orphan-object sweep task on a cron schedule.
type SweepScheduler struct {
	client *tasks.Client
	cfg    config.Sweeper

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewSweepScheduler creates a new scheduler instance.
func NewSweepScheduler(client *tasks.Client, cfg config.Sweeper) *SweepScheduler {
	return &SweepScheduler{
		client: client,
		cfg:    cfg,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if the sweep is enabled.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Orphan sweep scheduler: disabled")
		return nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.enqueueSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Orphan sweep scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Orphan sweep scheduler: stopped")
}

// RunNow enqueues an immediate sweep.
func (s *SweepScheduler) RunNow() {
	s.enqueueSweep()
}

// IsRunning returns whether the scheduler is active.
func (s *SweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sweep will be enqueued.
func (s *SweepScheduler) NextRunTime() *time.Time {
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

func (s *SweepScheduler) enqueueSweep() {
	if _, err := s.client.Add(tasks.SweepOrphanObjectsTask{Requested: time.Now()}).Save(); err != nil {
		log.Printf("Orphan sweep scheduler: failed to enqueue sweep: %v", err)
		return
	}
	log.Printf("Orphan sweep scheduler: sweep enqueued")
}
