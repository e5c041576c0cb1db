package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunner_InvokesImmediatelyAndReArms(t *testing.T) {
	var calls atomic.Int64
	r := NewRunner(5*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	r.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	r.Stop()
}

func TestRunner_StopPreventsReArming(t *testing.T) {
	var calls atomic.Int64
	r := NewRunner(5*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}, nil)

	r.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	r.Stop()

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no invocations after Stop")
}

func TestRunner_StopReturnsPromptlyDuringSleep(t *testing.T) {
	r := NewRunner(time.Hour, func(ctx context.Context) error { return nil }, nil)

	r.Start()
	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return promptly while the loop was re-arming")
	}
}

func TestRunner_FailedInvocationStillReArms(t *testing.T) {
	var calls atomic.Int64
	r := NewRunner(5*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return context.DeadlineExceeded
	}, nil)

	r.Start()
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	r.Stop()
}
