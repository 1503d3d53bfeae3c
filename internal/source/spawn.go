package source

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/ktop/internal/logger"
)

// Plan describes which sources to run.
type Plan struct {
	Resources ResourceProvider

	Repos        []string
	RepoInterval time.Duration
	RepoProvider RepoProvider
}

// Sources builds the sources a plan enables. The repository source is
// left out when no paths are configured.
func (p Plan) Sources(log logger.Logger) []Source {
	var out []Source
	if p.Resources != nil {
		out = append(out, NewResourceSource(p.Resources))
	}
	if len(p.Repos) > 0 && p.RepoProvider != nil {
		out = append(out, NewRepoSetSource(p.Repos, p.RepoInterval, p.RepoProvider, log))
	}
	return out
}

type runner struct {
	src     Source
	refresh chan struct{}
}

// Set is a group of running sources sharing one sink.
type Set struct {
	runners []*runner
	wg      sync.WaitGroup
}

// Spawn starts every source the plan enables, each on its own goroutine.
func Spawn(ctx context.Context, plan Plan, sink Sink, log logger.Logger) *Set {
	return Start(ctx, plan.Sources(log), sink, log)
}

// Start runs each of sources on its own goroutine, all pushing into sink.
// The goroutines end when ctx is done or sink starts rejecting pushes.
func Start(ctx context.Context, sources []Source, sink Sink, log logger.Logger) *Set {
	if log == nil {
		log = logger.Noop()
	}
	s := &Set{}
	for _, src := range sources {
		r := &runner{src: src, refresh: make(chan struct{}, 1)}
		s.runners = append(s.runners, r)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			Run(ctx, r.src, sink, r.refresh, log)
		}()
	}
	log.Info("started %d source(s): %v", len(s.runners), s.Names())
	return s
}

// Names lists the running sources in start order.
func (s *Set) Names() []string {
	names := make([]string, len(s.runners))
	for i, r := range s.runners {
		names[i] = r.src.Name()
	}
	return names
}

// Has reports whether a source with the given name was started.
func (s *Set) Has(name string) bool {
	for _, r := range s.runners {
		if r.src.Name() == name {
			return true
		}
	}
	return false
}

// Refresh asks every source for an immediate extra collection. Requests
// made before a source gets to them collapse into one.
func (s *Set) Refresh() {
	for _, r := range s.runners {
		select {
		case r.refresh <- struct{}{}:
		default:
		}
	}
}

// Wait blocks until every source loop has returned.
func (s *Set) Wait() {
	s.wg.Wait()
}
