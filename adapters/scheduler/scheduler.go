package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of background work; it must respect ctx.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on cron specs, each under its own timeout.
type Scheduler struct {
	log     *slog.Logger
	cron    *cron.Cron
	timeout time.Duration
}

func New(log *slog.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		log: log,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		timeout: timeout,
	}
}

// Add registers job under spec (standard five fields or a descriptor such as "@every 30s").
func (s *Scheduler) Add(name, spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, s.wrap(name, job)); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.log.Debug("job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) wrap(name string, job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("job failed", "job", name, "error", err)
			return
		}
		s.log.Debug("job done", "job", name, "took", time.Since(start))
	}
}

// RunAll runs every registered job once, synchronously.
func (s *Scheduler) RunAll() {
	for _, e := range s.cron.Entries() {
		e.WrappedJob.Run()
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
