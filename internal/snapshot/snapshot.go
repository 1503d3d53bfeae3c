// Package snapshot defines the immutable observations that sources emit.
//
// A Snapshot carries exactly one category of data. Consumers switch on
// Kind and read only the matching field.
package snapshot

import "time"

// Kind tags the category a Snapshot belongs to.
type Kind int

const (
	// KindResources marks host CPU, memory and disk figures.
	KindResources Kind = iota + 1
	// KindRepositories marks the status of the configured working trees.
	KindRepositories
)

func (k Kind) String() string {
	switch k {
	case KindResources:
		return "resources"
	case KindRepositories:
		return "repositories"
	default:
		return "unknown"
	}
}

// Branch labels used when HEAD does not name a branch.
const (
	// BranchDetached is shown when HEAD points directly at a commit.
	BranchDetached = "HEAD"
	// BranchUnborn is shown when HEAD cannot be resolved, e.g. before the
	// first commit.
	BranchUnborn = "no branch"
)

// Snapshot is one observation from one source.
type Snapshot struct {
	Kind         Kind
	Taken        time.Time
	Resources    *Resources
	Repositories *Repositories
}

// Resources holds one sample of host resource usage.
type Resources struct {
	// CPU holds one utilization percentage (0-100) per logical core.
	CPU       []float64
	MemTotal  uint64
	MemUsed   uint64
	DiskTotal uint64
	DiskUsed  uint64
}

// Repositories holds the status of every configured path that resolved to
// a repository, in configuration order.
type Repositories struct {
	Repos []RepoStatus
}

// RepoStatus is the status of one working tree.
type RepoStatus struct {
	Name      string
	Path      string
	Branch    string
	Modified  int
	Staged    int
	Untracked int
	Ahead     int
	Behind    int
}

// Dirty reports whether the working tree has any local changes.
func (r RepoStatus) Dirty() bool {
	return r.Modified+r.Staged+r.Untracked > 0
}

// NewResources wraps a resource sample.
func NewResources(r Resources) Snapshot {
	r.CPU = append([]float64(nil), r.CPU...)
	return Snapshot{Kind: KindResources, Taken: time.Now(), Resources: &r}
}

// NewRepositories wraps a repository-set sample.
func NewRepositories(repos []RepoStatus) Snapshot {
	return Snapshot{
		Kind:         KindRepositories,
		Taken:        time.Now(),
		Repositories: &Repositories{Repos: append([]RepoStatus(nil), repos...)},
	}
}
