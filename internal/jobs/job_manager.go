package jobs

import (
	"fmt"
	"log/slog"
)

// Job is a scheduled background task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []Job
	started []Job
	logger  *slog.Logger
}

// NewJobManager takes the jobs to run. Nil entries are skipped, so optional
// jobs can be passed unconditionally.
func NewJobManager(logger *slog.Logger, jobs ...Job) *JobManager {
	enabled := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j != nil {
			enabled = append(enabled, j)
		}
	}
	return &JobManager{jobs: enabled, logger: logger.With("component", "job_manager")}
}

// StartAll starts jobs in order. If one fails, the ones already started are
// stopped and the error is returned.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.Name(), err)
		}
		jm.started = append(jm.started, j)
	}
	return nil
}

// StopAll stops started jobs in reverse order.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}

// Len returns the number of enabled jobs.
func (jm *JobManager) Len() int {
	return len(jm.jobs)
}
