// Package scheduler runs the background housekeeping jobs on cron specs.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"vira/pkg/logger"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// New returns a scheduler whose jobs each get timeout to finish.
func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: timeout,
	}
}

// Add registers fn under spec. A panicking job is logged and the schedule
// keeps running.
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, fn)
	})
	if err != nil {
		return err
	}
	logger.Info("Scheduled job %s: %s", name, spec)
	return nil
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	log := logger.With("job", name)
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("Job panicked", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Errorw("Job failed", "error", err)
		return
	}
	log.Debugw("Job finished", "elapsed", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		logger.Warn("Scheduler stop timed out")
	}
}
