package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Name() string { return "counting" }
func (j *countingJob) Run() error {
	j.runs.Add(1)
	return nil
}

func TestAddJob_RejectsInvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.AddJob("every day at noon", &countingJob{})
	assert.Error(t, err)
}

func TestAddJob_AcceptsDescriptors(t *testing.T) {
	s := New(zerolog.Nop())
	assert.NoError(t, s.AddJob("@daily", &countingJob{}))
	assert.NoError(t, s.AddJob("@every 12h", &countingJob{}))
	assert.NoError(t, s.AddJob("0 0 3 * * *", &countingJob{}))
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 100ms", job))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)
}
