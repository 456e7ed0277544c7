package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named maintenance task run by the Scheduler.
type Job struct {
	Name    string
	Spec    string // standard 5-field cron spec or a descriptor such as "@every 10m"
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler runs maintenance jobs (cache eviction, taxonomy refresh) while
// the API server is up.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a scheduler that evaluates specs in IST.
func NewScheduler(logger *zap.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Add registers a job. Jobs with an empty spec are skipped.
func (s *Scheduler) Add(job Job) error {
	if job.Spec == "" {
		s.logger.Debug("job disabled", zap.String("job", job.Name))
		return nil
	}
	if job.Timeout <= 0 {
		job.Timeout = 5 * time.Minute
	}
	if _, err := s.cron.AddFunc(job.Spec, func() { s.run(job) }); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", job.Name, job.Spec, err)
	}
	s.logger.Info("job scheduled", zap.String("job", job.Name), zap.String("spec", job.Spec))
	return nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.logger.Error("job failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	s.logger.Debug("job completed", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
}
