package jobs

import (
	"fmt"
	"time"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/metrics"
	"bloodlink-backend/internal/repository"
	"bloodlink-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    repository.Repositories
	notifier *service.Notifier
	email    service.EmailService
	metrics  *metrics.Metrics
	config   *config.Config
	now      func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	repos repository.Repositories,
	notifier *service.Notifier,
	email service.EmailService,
	m *metrics.Metrics,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		repos:    repos,
		notifier: notifier,
		email:    email,
		metrics:  m,
		config:   cfg,
		now:      time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and records the outcome.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) (err error) {
	log := logger.WithMethod("JobRunner." + jobName).With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
		jr.metrics.JobFinished(jobName, err)
	}()

	log.Info("Starting job")
	start := jr.now()
	if err = jobFunc(); err != nil {
		log.Error("Job failed", "error", err)
		return err
	}
	log.Info("Job completed", "duration", jr.now().Sub(start))
	return nil
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() error {
	err1 := jr.NotifyEligibleDonors()
	err2 := jr.RemindPendingRequests()
	if err1 != nil {
		return err1
	}
	return err2
}
