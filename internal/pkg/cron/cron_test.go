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

func TestRunRecordsState(t *testing.T) {
	s := New(nil)
	var runs atomic.Int32
	s.Register(Job{Name: "ok", Interval: time.Hour, Fn: func(context.Context) error {
		runs.Add(1)
		return nil
	}})
	s.Register(Job{Name: "broken", Interval: time.Hour, Fn: func(context.Context) error {
		return errors.New("disk full")
	}})

	require.NoError(t, s.Run(context.Background(), "ok"))
	require.NoError(t, s.Run(context.Background(), "broken"))
	assert.Error(t, s.Run(context.Background(), "missing"))

	states := s.List()
	require.Len(t, states, 2)
	assert.Equal(t, "broken", states[0].Name)
	assert.Equal(t, StatusFailed, states[0].Status)
	assert.Equal(t, "disk full", states[0].Message)
	assert.Equal(t, StatusOK, states[1].Status)
	assert.NotNil(t, states[1].LastRunAt)
	assert.EqualValues(t, 1, runs.Load())
}

func TestStartRunsOnInterval(t *testing.T) {
	s := New(nil)
	ran := make(chan struct{}, 4)
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}
