package backup

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/steamkeeper/internal/logging"
)

// Runner is a unit of periodic work.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler runs a Runner on a cron schedule. Schedules take five or six
// fields (seconds optional) or a descriptor such as @daily.
type Scheduler struct {
	cron    *cron.Cron
	log     logging.Logger
	timeout time.Duration
	running atomic.Bool
}

func NewScheduler(log logging.Logger, timeout time.Duration) *Scheduler {
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		log:     log,
		timeout: timeout,
	}
}

// Start schedules r and starts the scheduler. A run that is still going when
// the next one is due makes the next one skip.
func (s *Scheduler) Start(spec string, r Runner) error {
	_, err := s.cron.AddFunc(spec, func() { s.runOnce(r) })
	if err != nil {
		return fmt.Errorf("schedule backup %q: %w", spec, err)
	}

	s.cron.Start()
	s.log.Info(context.Background(), "backup scheduled", "schedule", spec)
	return nil
}

func (s *Scheduler) runOnce(r Runner) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn(context.Background(), "backup still running, skipping")
		return
	}
	defer s.running.Store(false)

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := r.Run(ctx); err != nil {
		s.log.Error(ctx, "backup failed", "error", err)
	}
}

// Stop stops scheduling and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info(context.Background(), "backup scheduler stopped")
}
