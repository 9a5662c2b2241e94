package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce(t *testing.T) {
	s := NewScheduler()
	var calls int32
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	s.AddJob("broken", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestStartRunsOnStartAndTicks(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 8)
	s.AddJobRunOnStart("tick", 10*time.Millisecond, func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	s.Start()
	s.Start()

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("job did not run")
		}
	}
	s.Stop()
}

func TestDelayedJobDoesNotRunImmediately(t *testing.T) {
	s := NewScheduler()
	var calls int32
	s.AddJob("later", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
