// Package scheduler runs instance reconciliation in the background.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"zapmanager/internal/service"
)

const syncTag = "instance-sync"

// Syncer reconciles local instances against the gateway.
type Syncer interface {
	Sync(ctx context.Context) (service.SyncStats, error)
}

// Scheduler periodically runs a Syncer. Runs never overlap.
type Scheduler struct {
	scheduler *gocron.Scheduler
	syncer    Syncer
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a scheduler that syncs every interval, starting immediately once started.
func New(syncer Syncer, interval time.Duration, log *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sync interval must be positive, got %s", interval)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		syncer:    syncer,
		log:       log.Named("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}

	if _, err := s.scheduler.Every(interval).SingletonMode().Tag(syncTag).Do(s.runSync); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule instance sync: %w", err)
	}
	return s, nil
}

// Start begins running the scheduled jobs.
func (s *Scheduler) Start() {
	s.log.Info("starting background sync")
	s.scheduler.StartAsync()
}

// Stop halts the jobs and cancels a sync in flight.
func (s *Scheduler) Stop() {
	s.log.Info("stopping background sync")
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) runSync() {
	stats, err := s.syncer.Sync(s.ctx)
	if err != nil {
		s.log.Warn("background sync failed", zap.Error(err))
		return
	}
	s.log.Info("background sync completed",
		zap.Int("remote", stats.Remote),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
	)
}
