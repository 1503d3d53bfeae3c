package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/ktop/internal/logger"
	"github.com/rileyhilliard/ktop/internal/queue"
	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// fakeSource counts calls and delegates each one to fn.
type fakeSource struct {
	name     string
	interval time.Duration
	calls    atomic.Int64

	mu     sync.Mutex
	starts []time.Time
	fn     func(n int64) (snapshot.Snapshot, error)
}

func (f *fakeSource) Name() string            { return f.name }
func (f *fakeSource) Interval() time.Duration { return f.interval }

func (f *fakeSource) Collect(ctx context.Context) (snapshot.Snapshot, error) {
	n := f.calls.Add(1)
	f.mu.Lock()
	f.starts = append(f.starts, time.Now())
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(n)
	}
	return snapshot.NewResources(snapshot.Resources{CPU: []float64{float64(n)}}), nil
}

func (f *fakeSource) startTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.starts...)
}

func runAsync(ctx context.Context, src Source, sink Sink, refresh <-chan struct{}, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, src, sink, refresh, log)
	}()
	return done
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestRun_CollectsImmediatelyThenOnTicks(t *testing.T) {
	q := queue.New[snapshot.Snapshot]()
	src := &fakeSource{name: "fake", interval: 20 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := runAsync(ctx, src, q, nil, nil)
	waitFor(t, func() bool { return q.Len() >= 3 })
	cancel()
	<-done

	var seen []float64
	for {
		s, ok := q.TryPop()
		if !ok {
			break
		}
		require.Equal(t, snapshot.KindResources, s.Kind)
		seen = append(seen, s.Resources.CPU[0])
	}
	for i := range seen {
		assert.Equal(t, float64(i+1), seen[i], "snapshots arrive in emission order")
	}
}

func TestRun_FailureIsLoggedAndLoopContinues(t *testing.T) {
	q := queue.New[snapshot.Snapshot]()
	log := logger.NewBufferLogger()
	src := &fakeSource{
		name:     "flaky",
		interval: 10 * time.Millisecond,
		fn: func(n int64) (snapshot.Snapshot, error) {
			if n%2 == 1 {
				return snapshot.Snapshot{}, errors.New("probe failed")
			}
			return snapshot.NewRepositories(nil), nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := runAsync(ctx, src, q, nil, log)
	waitFor(t, func() bool { return q.Len() >= 2 })
	cancel()
	<-done

	assert.True(t, log.HasLevel("warn"))
	var warned bool
	for _, m := range log.Entries() {
		if m.Level == "warn" {
			assert.Contains(t, m.Message, "flaky collection failed")
			assert.Contains(t, m.Message, "probe failed")
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestRun_ExitsWhenSinkRejects(t *testing.T) {
	q := queue.New[snapshot.Snapshot]()
	src := &fakeSource{name: "fake", interval: 10 * time.Millisecond}

	done := runAsync(context.Background(), src, q, nil, nil)
	waitFor(t, func() bool { return src.calls.Load() >= 1 })

	q.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("source loop kept running after the queue closed")
	}
}

func TestRun_ExitsOnContextCancel(t *testing.T) {
	q := queue.New[snapshot.Snapshot]()
	src := &fakeSource{name: "slow", interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	done := runAsync(ctx, src, q, nil, nil)
	waitFor(t, func() bool { return src.calls.Load() == 1 })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("source loop ignored cancellation")
	}
}

func TestRun_RefreshTriggersExtraCollect(t *testing.T) {
	q := queue.New[snapshot.Snapshot]()
	src := &fakeSource{name: "fake", interval: time.Hour}
	refresh := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := runAsync(ctx, src, q, refresh, nil)
	waitFor(t, func() bool { return src.calls.Load() == 1 })

	refresh <- struct{}{}
	waitFor(t, func() bool { return src.calls.Load() == 2 })
	assert.Equal(t, 2, q.Len())

	cancel()
	<-done
}

func TestRun_SlowCollectAbsorbsAtMostOneTick(t *testing.T) {
	const interval = 50 * time.Millisecond
	q := queue.New[snapshot.Snapshot]()
	src := &fakeSource{
		name:     "slow-once",
		interval: interval,
		fn: func(n int64) (snapshot.Snapshot, error) {
			if n == 1 {
				time.Sleep(225 * time.Millisecond)
			}
			return snapshot.NewRepositories(nil), nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := runAsync(ctx, src, q, nil, nil)
	waitFor(t, func() bool { return src.calls.Load() >= 4 })
	cancel()
	<-done

	starts := src.startTimes()
	require.GreaterOrEqual(t, len(starts), 4)

	// The first collect overran four ticks. Only one is replayed right
	// away; the next waits for the regular cadence.
	firstEnd := starts[0].Add(225 * time.Millisecond)
	burst := 0
	for _, s := range starts[1:] {
		if s.Sub(firstEnd) < 15*time.Millisecond {
			burst++
		}
	}
	assert.Equal(t, 1, burst)
	assert.GreaterOrEqual(t, starts[2].Sub(starts[1]), 10*time.Millisecond)
}

func TestRun_ClampsNonPositiveInterval(t *testing.T) {
	q := queue.New[snapshot.Snapshot]()
	src := &fakeSource{name: "zero", interval: 0}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := runAsync(ctx, src, q, nil, nil)
	waitFor(t, func() bool { return src.calls.Load() >= 2 })
	cancel()
	<-done
}
