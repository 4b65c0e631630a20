package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const stagingSweepJobName = "staging_sweep"

// DefaultStagingSweepSchedule runs the sweep once a minute.
const DefaultStagingSweepSchedule = "0 * * * * *"

// ExpiredIntentPurger drops staged payment intents whose TTL has passed.
type ExpiredIntentPurger interface {
	PurgeExpired(ctx context.Context) int
}

// StagingSweepJob frees memory held by staged intents nobody came back for.
// Only the in-process staging store needs it; Redis expires keys itself.
type StagingSweepJob struct {
	purger   ExpiredIntentPurger
	schedule string
	clock    clock.Clock
	metrics  *metrics.Metrics
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewStagingSweepJob(
	purger ExpiredIntentPurger,
	schedule string,
	c clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *StagingSweepJob {
	if schedule == "" {
		schedule = DefaultStagingSweepSchedule
	}
	return &StagingSweepJob{
		purger:   purger,
		schedule: schedule,
		clock:    c,
		metrics:  m,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "staging_sweep_job"),
	}
}

func (j *StagingSweepJob) Name() string {
	return stagingSweepJobName
}

// Start schedules the sweep. A malformed schedule is returned as an error.
func (j *StagingSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Staging sweep job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs one sweep and returns how many intents were dropped.
func (j *StagingSweepJob) RunOnce(ctx context.Context) int {
	started := j.clock.Now()
	purged := j.purger.PurgeExpired(ctx)
	j.metrics.ObserveJob(stagingSweepJobName, j.clock.Now().Sub(started), nil)

	if purged > 0 {
		j.logger.InfoContext(ctx, "Expired staged intents purged", "count", purged)
	}
	return purged
}

// Stop waits for a running sweep to finish.
func (j *StagingSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Staging sweep job stopped")
}
