package monitor

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// Panel absorbs snapshots of its own category. Absorb reports whether the
// snapshot was taken; a snapshot of another category is ignored.
type Panel interface {
	Absorb(s snapshot.Snapshot) bool
}

// ResourcePanel holds the latest resource sample and the mean-CPU history.
type ResourcePanel struct {
	current snapshot.Resources
	updated time.Time
	ready   bool
	history *History
}

// NewResourcePanel creates an empty resource panel with the given history size.
func NewResourcePanel(historySize int) *ResourcePanel {
	return &ResourcePanel{history: NewHistory(historySize)}
}

// Absorb takes a resource snapshot and appends its mean CPU to the history.
func (p *ResourcePanel) Absorb(s snapshot.Snapshot) bool {
	if s.Kind != snapshot.KindResources || s.Resources == nil {
		return false
	}
	p.current = *s.Resources
	p.updated = s.Taken
	p.ready = true
	p.history.Push(MeanCPU(p.current.CPU))
	return true
}

// Ready reports whether a sample has been absorbed.
func (p *ResourcePanel) Ready() bool { return p.ready }

// Updated returns when the current sample was taken.
func (p *ResourcePanel) Updated() time.Time { return p.updated }

// Resources returns the current sample.
func (p *ResourcePanel) Resources() snapshot.Resources { return p.current }

// History returns the mean-CPU history.
func (p *ResourcePanel) History() *History { return p.history }

// MeanCPU returns the newest history sample, which is the mean of the
// current per-core figures.
func (p *ResourcePanel) MeanCPU() float64 {
	v, _ := p.history.Latest()
	return v
}

// MemRatio returns used/total memory in [0,1].
func (p *ResourcePanel) MemRatio() float64 {
	return Ratio(p.current.MemUsed, p.current.MemTotal)
}

// DiskRatio returns used/total disk in [0,1].
func (p *ResourcePanel) DiskRatio() float64 {
	return Ratio(p.current.DiskUsed, p.current.DiskTotal)
}

// MeanCPU returns the arithmetic mean of per-core percentages, or 0 for
// an empty slice.
func MeanCPU(cores []float64) float64 {
	if len(cores) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cores {
		sum += c
	}
	return sum / float64(len(cores))
}

// Ratio returns used/total clamped to [0,1]. A zero total yields 0.
func Ratio(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	r := float64(used) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}

// RepoPanel holds the latest repository-set sample.
type RepoPanel struct {
	repos   []snapshot.RepoStatus
	updated time.Time
	ready   bool
}

// NewRepoPanel creates an empty repository panel.
func NewRepoPanel() *RepoPanel {
	return &RepoPanel{}
}

// Absorb replaces the repository list with the snapshot's.
func (p *RepoPanel) Absorb(s snapshot.Snapshot) bool {
	if s.Kind != snapshot.KindRepositories || s.Repositories == nil {
		return false
	}
	p.repos = s.Repositories.Repos
	p.updated = s.Taken
	p.ready = true
	return true
}

// Ready reports whether a sample has been absorbed.
func (p *RepoPanel) Ready() bool { return p.ready }

// Updated returns when the current sample was taken.
func (p *RepoPanel) Updated() time.Time { return p.updated }

// Repos returns the current repository statuses in configuration order.
func (p *RepoPanel) Repos() []snapshot.RepoStatus { return p.repos }

// repoColumns are the repository table headings; widths are set at render time.
var repoColumns = []string{"Repo", "Branch", "Modified", "Staged", "Untracked", "Ahead", "Behind"}

// Rows returns one table row per repository.
func (p *RepoPanel) Rows() []table.Row {
	rows := make([]table.Row, 0, len(p.repos))
	for _, r := range p.repos {
		rows = append(rows, table.Row{
			r.Name,
			r.Branch,
			strconv.Itoa(r.Modified),
			strconv.Itoa(r.Staged),
			strconv.Itoa(r.Untracked),
			strconv.Itoa(r.Ahead),
			strconv.Itoa(r.Behind),
		})
	}
	return rows
}
