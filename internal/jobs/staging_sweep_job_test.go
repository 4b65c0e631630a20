package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/adapters/out/staging"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepFixture struct {
	job      *StagingSweepJob
	store    *staging.MemoryStore
	clock    *clock.Manual
	registry *prometheus.Registry
}

func newSweepFixture(t *testing.T, schedule string) sweepFixture {
	t.Helper()
	c := clock.NewManual(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	store := staging.NewMemoryStore(c)
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return sweepFixture{
		job:      NewStagingSweepJob(store, schedule, c, metrics.New(reg), logger),
		store:    store,
		clock:    c,
		registry: reg,
	}
}

func (f sweepFixture) successes(t *testing.T) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "orderflow_job_success_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "job" && label.GetValue() == stagingSweepJobName {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestStagingSweepJob(t *testing.T) {
	ctx := context.Background()

	t.Run("should purge only expired intents", func(t *testing.T) {
		f := newSweepFixture(t, "")
		require.NoError(t, f.store.Stage(ctx, "short", payment.Intent{}, time.Minute))
		require.NoError(t, f.store.Stage(ctx, "long", payment.Intent{}, time.Hour))

		f.clock.Advance(2 * time.Minute)
		purged := f.job.RunOnce(ctx)

		assert.Equal(t, 1, purged)
		assert.Equal(t, 1, f.store.Len())
		assert.Equal(t, 1.0, f.successes(t))
	})

	t.Run("should record a run even when nothing expired", func(t *testing.T) {
		f := newSweepFixture(t, "")

		assert.Zero(t, f.job.RunOnce(ctx))
		assert.Equal(t, 1.0, f.successes(t))
	})

	t.Run("should fall back to the default schedule", func(t *testing.T) {
		f := newSweepFixture(t, "")

		assert.Equal(t, DefaultStagingSweepSchedule, f.job.schedule)
		assert.Equal(t, "staging_sweep", f.job.Name())
	})

	t.Run("should refuse a malformed schedule", func(t *testing.T) {
		f := newSweepFixture(t, "every now and then")

		assert.Error(t, f.job.Start())
	})

	t.Run("should start and stop", func(t *testing.T) {
		f := newSweepFixture(t, "@every 1h")

		require.NoError(t, f.job.Start())
		f.job.Stop()
	})
}
