package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"Palindra/services/match"

	"github.com/stretchr/testify/assert"
)

func collect(out <-chan *match.Snapshot, n int, timeout time.Duration) []*match.Snapshot {
	var got []*match.Snapshot
	deadline := time.After(timeout)
	for len(got) < n {
		select {
		case s, ok := <-out:
			if !ok {
				return got
			}
			got = append(got, s)
		case <-deadline:
			return got
		}
	}
	return got
}

func TestWatchLoopEmitsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan *match.Snapshot, 1)
	fetch := func() (*match.Snapshot, error) {
		return &match.Snapshot{}, nil
	}

	go watchLoop(ctx, make(chan struct{}), time.Hour, fetch, out)

	got := collect(out, 1, time.Second)
	assert.Len(t, got, 1, "first snapshot should arrive without a trigger or tick")
}

func TestWatchLoopRefetchesOnTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	fetch := func() (*match.Snapshot, error) {
		atomic.AddInt32(&calls, 1)
		return &match.Snapshot{}, nil
	}

	triggers := make(chan struct{}, 3)
	out := make(chan *match.Snapshot, 8)
	go watchLoop(ctx, triggers, time.Hour, fetch, out)

	collect(out, 1, time.Second)

	triggers <- struct{}{}
	triggers <- struct{}{}

	got := collect(out, 2, time.Second)
	assert.Len(t, got, 2)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
}

func TestWatchLoopPollsWithoutTriggers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan *match.Snapshot, 8)
	fetch := func() (*match.Snapshot, error) {
		return &match.Snapshot{}, nil
	}

	go watchLoop(ctx, make(chan struct{}), 10*time.Millisecond, fetch, out)

	got := collect(out, 3, time.Second)
	assert.Len(t, got, 3, "ticker should keep emitting with no triggers at all")
}

func TestWatchLoopSkipsFailedFetches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	fetch := func() (*match.Snapshot, error) {
		if atomic.AddInt32(&calls, 1)%2 == 1 {
			return nil, errors.New("transient")
		}
		return &match.Snapshot{}, nil
	}

	out := make(chan *match.Snapshot, 8)
	go watchLoop(ctx, make(chan struct{}), 10*time.Millisecond, fetch, out)

	got := collect(out, 2, time.Second)
	assert.Len(t, got, 2, "errors should be skipped, not forwarded or fatal")
}

func TestWatchLoopSkipsMissingMatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan *match.Snapshot, 1)
	fetch := func() (*match.Snapshot, error) {
		return nil, nil
	}

	go watchLoop(ctx, make(chan struct{}), 10*time.Millisecond, fetch, out)

	got := collect(out, 1, 100*time.Millisecond)
	assert.Empty(t, got)
}

func TestWatchLoopClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	out := make(chan *match.Snapshot, 1)
	fetch := func() (*match.Snapshot, error) {
		return &match.Snapshot{}, nil
	}

	go watchLoop(ctx, make(chan struct{}), time.Hour, fetch, out)
	collect(out, 1, time.Second)

	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok, "channel should close after cancellation")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after cancellation")
	}
}
