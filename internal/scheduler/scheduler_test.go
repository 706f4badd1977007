package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"anoa.com/blogapi/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	s := New(nil, nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Register(Job{Name: "reindex", Schedule: "0 3 * * *", Run: noop}))
	require.NoError(t, s.Register(Job{Name: "manual", Run: noop}))

	assert.Error(t, s.Register(Job{Name: "reindex", Run: noop}))
	assert.Error(t, s.Register(Job{Name: "broken", Schedule: "every tuesday", Run: noop}))
	assert.Error(t, s.Register(Job{Name: "empty"}))

	assert.Equal(t, []string{"reindex", "manual"}, s.Jobs())
}

func TestRunByName(t *testing.T) {
	m := metrics.New()
	s := New(nil, m)

	calls := 0
	require.NoError(t, s.Register(Job{Name: "ok", Run: func(context.Context) error {
		calls++
		return nil
	}}))
	require.NoError(t, s.Register(Job{Name: "fail", Run: func(context.Context) error {
		return errors.New("boom")
	}}))

	require.NoError(t, s.RunByName(context.Background(), "ok"))
	assert.Equal(t, 1, calls)
	assert.EqualError(t, s.RunByName(context.Background(), "fail"), "boom")
	assert.Error(t, s.RunByName(context.Background(), "missing"))

	expected := `
# HELP blogapi_job_runs_total Scheduled job runs by job and outcome.
# TYPE blogapi_job_runs_total counter
blogapi_job_runs_total{job="fail",outcome="failure"} 1
blogapi_job_runs_total{job="ok",outcome="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "blogapi_job_runs_total"))
}

func TestRunByName_AppliesTimeout(t *testing.T) {
	s := New(nil, nil)
	require.NoError(t, s.Register(Job{Name: "slow", Timeout: 10 * time.Millisecond, Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}))

	err := s.RunByName(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStartStop(t *testing.T) {
	s := New(nil, nil)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
