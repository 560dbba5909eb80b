package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	marketplaceapp "github.com/repairpos/backend/internal/application/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s := NewScheduler(cfg, zaptest.NewLogger(t))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob("demo", 2)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.True(t, job.ShouldRetry())
	job.RetryCount = 2
	assert.False(t, job.ShouldRetry())

	job.Start()
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Empty(t, job.Error)
}

func TestJob_RetryDelay(t *testing.T) {
	job := NewJob("demo", 10)
	assert.Equal(t, time.Second, job.retryDelay(time.Second))
	job.RetryCount = 3
	assert.Equal(t, 8*time.Second, job.retryDelay(time.Second))
	job.RetryCount = 9
	assert.Equal(t, 30*time.Minute, job.retryDelay(time.Minute))
}

func TestScheduler_SubmitRequiresRunning(t *testing.T) {
	s := newTestScheduler(t, Config{})
	s.Register("demo", ExecutorFunc(func(context.Context, *Job) error { return nil }))

	_, err := s.Submit("demo")
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	_, err = s.Submit("unknown")
	assert.ErrorIs(t, err, ErrUnknownJobKind)
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := newTestScheduler(t, Config{Workers: 2})
	done := make(chan string, 3)
	s.Register("demo", ExecutorFunc(func(_ context.Context, job *Job) error {
		done <- job.ID.String()
		return nil
	}))
	require.NoError(t, s.Start(context.Background()))

	for i := 0; i < 3; i++ {
		_, err := s.Submit("demo")
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
}

func TestScheduler_RetriesFailedJobs(t *testing.T) {
	s := newTestScheduler(t, Config{Workers: 1, RetryAttempts: 2, RetryDelay: 10 * time.Millisecond})
	var calls atomic.Int32
	succeeded := make(chan *Job, 1)
	s.Register("flaky", ExecutorFunc(func(_ context.Context, job *Job) error {
		if calls.Add(1) < 3 {
			return errors.New("provider down")
		}
		succeeded <- job
		return nil
	}))
	require.NoError(t, s.Start(context.Background()))

	submitted, err := s.Submit("flaky")
	require.NoError(t, err)

	select {
	case job := <-succeeded:
		assert.Equal(t, submitted.ID, job.ID)
		assert.Equal(t, 2, job.RetryCount)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestScheduler_GivesUpAfterMaxRetries(t *testing.T) {
	s := newTestScheduler(t, Config{Workers: 1, RetryAttempts: 1, RetryDelay: 5 * time.Millisecond})
	var calls atomic.Int32
	s.Register("broken", ExecutorFunc(func(context.Context, *Job) error {
		calls.Add(1)
		return errors.New("always")
	}))
	require.NoError(t, s.Start(context.Background()))

	_, err := s.Submit("broken")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := newTestScheduler(t, Config{Workers: 1, JobTimeout: 20 * time.Millisecond})
	result := make(chan error, 1)
	s.Register("slow", ExecutorFunc(func(ctx context.Context, _ *Job) error {
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	}))
	require.NoError(t, s.Start(context.Background()))
	_, err := s.Submit("slow")
	require.NoError(t, err)

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled")
	}
}

func TestIntervalTrigger(t *testing.T) {
	s := newTestScheduler(t, Config{Workers: 1})
	var runs atomic.Int32
	s.Register("tick", ExecutorFunc(func(context.Context, *Job) error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, s.Start(context.Background()))

	trigger := NewIntervalTrigger("tick", 10*time.Millisecond, s, zaptest.NewLogger(t))
	require.NoError(t, trigger.Start(context.Background()))
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	trigger.Stop()

	assert.ErrorIs(t, NewIntervalTrigger("tick", 0, s, nil).Start(context.Background()), ErrInvalidInterval)
}

type stubSyncer struct {
	staleAfter time.Duration
	limit      int
}

func (s *stubSyncer) SyncStale(_ context.Context, staleAfter time.Duration, limit int) (marketplaceapp.SyncSummary, error) {
	s.staleAfter, s.limit = staleAfter, limit
	return marketplaceapp.SyncSummary{Checked: 2, Synced: 2}, nil
}

func TestListingSyncExecutor(t *testing.T) {
	syncer := &stubSyncer{}
	exec := NewListingSyncExecutor(syncer, 6*time.Hour, 0, zaptest.NewLogger(t))

	require.NoError(t, exec.Execute(context.Background(), NewJob(JobListingSync, 0)))
	assert.Equal(t, 6*time.Hour, syncer.staleAfter)
	assert.Equal(t, 50, syncer.limit)
}
