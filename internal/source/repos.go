package source

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/ktop/internal/logger"
	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// DefaultRepoInterval is the repository-set polling period when none is configured.
const DefaultRepoInterval = 5 * time.Second

// maxConcurrentProbes caps how many repositories are probed at once.
const maxConcurrentProbes = 4

// RepoProvider reports the status of one working tree. It returns an error
// when path is not a repository or its status cannot be read.
type RepoProvider interface {
	Status(ctx context.Context, path string) (snapshot.RepoStatus, error)
}

// RepoSetSource emits the status of every configured repository.
type RepoSetSource struct {
	paths    []string
	interval time.Duration
	provider RepoProvider
	log      logger.Logger
}

// NewRepoSetSource creates a source probing paths every interval.
func NewRepoSetSource(paths []string, interval time.Duration, provider RepoProvider, log logger.Logger) *RepoSetSource {
	if interval <= 0 {
		interval = DefaultRepoInterval
	}
	if log == nil {
		log = logger.Noop()
	}
	return &RepoSetSource{
		paths:    append([]string(nil), paths...),
		interval: interval,
		provider: provider,
		log:      log,
	}
}

func (s *RepoSetSource) Name() string { return RepositoriesName }

func (s *RepoSetSource) Interval() time.Duration { return s.interval }

// Collect probes every path in parallel. Paths that fail are left out of
// the result; the order of the rest follows the configuration.
func (s *RepoSetSource) Collect(ctx context.Context) (snapshot.Snapshot, error) {
	results := make([]*snapshot.RepoStatus, len(s.paths))

	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)
	for i, path := range s.paths {
		g.Go(func() error {
			st, err := s.status(ctx, path)
			if err != nil {
				s.log.Debug("skipping %s: %v", path, err)
				return nil
			}
			results[i] = &st
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return snapshot.Snapshot{}, err
	}

	repos := make([]snapshot.RepoStatus, 0, len(results))
	for _, r := range results {
		if r != nil {
			repos = append(repos, *r)
		}
	}
	return snapshot.NewRepositories(repos), nil
}

// probe treats a panicking provider like a path that isn't a repository.
func (s *RepoSetSource) status(ctx context.Context, path string) (st snapshot.RepoStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("status of %s panicked: %v", path, r)
		}
	}()
	return s.provider.Status(ctx, path)
}
