package jobs

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJob struct {
	name     string
	startErr error
	log      *[]string
}

func (f *fakeJob) Name() string { return f.name }

func (f *fakeJob) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeJob) Stop() {
	*f.log = append(*f.log, "stop "+f.name)
}

func TestJobManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("should start in order and stop in reverse", func(t *testing.T) {
		var log []string
		jm := NewJobManager(logger, &fakeJob{name: "a", log: &log}, &fakeJob{name: "b", log: &log})

		require.NoError(t, jm.StartAll())
		jm.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	})

	t.Run("should stop started jobs when a later one fails", func(t *testing.T) {
		var log []string
		boom := errors.New("boom")
		jm := NewJobManager(logger, &fakeJob{name: "a", log: &log}, &fakeJob{name: "b", startErr: boom, log: &log})

		err := jm.StartAll()

		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "b job")
		assert.Equal(t, []string{"start a", "stop a"}, log)
	})

	t.Run("should skip nil jobs", func(t *testing.T) {
		jm := NewJobManager(logger, nil)

		assert.Zero(t, jm.Len())
		require.NoError(t, jm.StartAll())
		jm.StopAll()
	})
}
