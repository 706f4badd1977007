package scheduler

import (
	"context"
	"fmt"
	"time"

	"anoa.com/blogapi/pkg/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of background work. An empty Schedule registers the job as
// on-demand only.
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs registered jobs on their cron schedule and on demand.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(log *zap.Logger, m *metrics.Metrics) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		log:     log.Named("scheduler"),
		metrics: m,
	}
}

// Register adds a job. A malformed schedule is returned as an error and the
// job is not registered.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job needs a name and a run function")
	}
	for _, existing := range s.jobs {
		if existing.Name == job.Name {
			return fmt.Errorf("job %s already registered", job.Name)
		}
	}

	if job.Schedule != "" {
		if _, err := s.cron.AddFunc(job.Schedule, func() {
			_ = s.execute(context.Background(), job)
		}); err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
		}
		s.log.Info("job scheduled", zap.String("job", job.Name), zap.String("schedule", job.Schedule))
	} else {
		s.log.Info("job registered on demand", zap.String("job", job.Name))
	}

	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stopped before running jobs finished")
	}
	s.log.Info("scheduler stopped")
}

// RunByName executes a registered job immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name == name {
			return s.execute(ctx, job)
		}
	}
	return fmt.Errorf("job %s not found", name)
}

// Jobs returns the registered job names in registration order.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name
	}
	return names
}

func (s *Scheduler) execute(ctx context.Context, job Job) error {
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.log.Info("job started", zap.String("job", job.Name))
	err := job.Run(ctx)
	if s.metrics != nil {
		s.metrics.ObserveJob(job.Name, err)
	}
	if err != nil {
		s.log.Error("job failed", zap.String("job", job.Name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	s.log.Info("job completed", zap.String("job", job.Name), zap.Duration("elapsed", time.Since(start)))
	return nil
}
