// Package source runs the data producers behind the dashboard.
//
// Each Source samples one category on its own fixed period and pushes the
// resulting snapshot into a shared sink. A failed collection is logged and
// the next tick tries again; a rejected push ends the loop.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/logger"
	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// Source produces snapshots for one category.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Interval is the polling period. It is read once when the loop starts.
	Interval() time.Duration
	// Collect takes one sample.
	Collect(ctx context.Context) (snapshot.Snapshot, error)
}

// Names of the built-in sources.
const (
	ResourcesName    = "resources"
	RepositoriesName = "repositories"
)

// Sink receives snapshots. Push fails once the consumer has gone away.
type Sink interface {
	Push(snapshot.Snapshot) error
}

// minInterval guards time.NewTicker against a zero or negative period.
const minInterval = 10 * time.Millisecond

// Run drives src until ctx is done or sink rejects a snapshot. It collects
// once immediately, then on every tick of a fixed-period ticker. A tick that
// arrives while Collect is still running is held (only one), so a slow
// collection is followed by at most one catch-up sample before the loop
// falls back to the regular cadence.
//
// A receive on refresh triggers an extra collection without moving the
// schedule. refresh may be nil.
func Run(ctx context.Context, src Source, sink Sink, refresh <-chan struct{}, log logger.Logger) {
	if log == nil {
		log = logger.Noop()
	}
	interval := src.Interval()
	if interval < minInterval {
		interval = minInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debug("%s source started, interval %s", src.Name(), interval)
	for {
		if !collectOnce(ctx, src, sink, log) {
			log.Debug("%s source stopped", src.Name())
			return
		}

		select {
		case <-ctx.Done():
			log.Debug("%s source stopped", src.Name())
			return
		case <-ticker.C:
		case <-refresh:
			log.Debug("%s source refresh requested", src.Name())
		}
	}
}

// collectOnce takes one sample and hands it to sink. It returns false when
// the loop should end.
func collectOnce(ctx context.Context, src Source, sink Sink, log logger.Logger) bool {
	snap, err := safeCollect(ctx, src)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		log.Warn("%s", errors.Wrap(err, src.Name()+" collection failed").Short())
		return true
	}
	if err := sink.Push(snap); err != nil {
		return false
	}
	return true
}

// safeCollect calls src.Collect, turning a panic into an error for this
// cycle only.
func safeCollect(ctx context.Context, src Source) (snap snapshot.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrSource, fmt.Sprintf("%s collection panicked: %v", src.Name(), r), "")
		}
	}()
	return src.Collect(ctx)
}
