package source

import (
	"context"
	"time"

	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// ResourceInterval is the fixed polling period of the resource source.
const ResourceInterval = time.Second

// ResourceProvider samples host CPU, memory and disk usage.
type ResourceProvider interface {
	Sample(ctx context.Context) (snapshot.Resources, error)
}

// ResourceSource emits a resource snapshot every second.
type ResourceSource struct {
	provider ResourceProvider
}

// NewResourceSource creates a resource source backed by provider.
func NewResourceSource(provider ResourceProvider) *ResourceSource {
	return &ResourceSource{provider: provider}
}

func (s *ResourceSource) Name() string { return ResourcesName }

func (s *ResourceSource) Interval() time.Duration { return ResourceInterval }

func (s *ResourceSource) Collect(ctx context.Context) (snapshot.Snapshot, error) {
	r, err := s.provider.Sample(ctx)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.NewResources(r), nil
}
