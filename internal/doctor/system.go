package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/rileyhilliard/ktop/internal/snapshot"
	"github.com/rileyhilliard/ktop/internal/util"
)

// Sampler is the part of sysinfo.Collector the resource check uses.
type Sampler interface {
	Sample(ctx context.Context) (snapshot.Resources, error)
}

// ResourceCheck takes one resource sample to confirm the metrics provider
// works on this host.
type ResourceCheck struct {
	Sampler Sampler
}

func (c *ResourceCheck) Name() string     { return "resources" }
func (c *ResourceCheck) Category() string { return CategorySystem }

func (c *ResourceCheck) Run(ctx context.Context) CheckResult {
	r, err := c.Sampler.Sample(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Cannot read resource usage",
			Suggestion: err.Error(),
		}
	}

	if len(r.CPU) == 0 || r.MemTotal == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Resource sample is incomplete",
			Suggestion: "The system panel may show empty gauges on this platform",
		}
	}

	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("%s, %s memory, %s disk",
			util.CountNoun(len(r.CPU), "core", "cores"), humanize.IBytes(r.MemTotal), humanize.IBytes(r.DiskTotal)),
	}
}

func (c *ResourceCheck) Fix() error {
	return nil
}

// Minimum size at which every panel fits without clipping.
const (
	MinTerminalWidth  = 80
	MinTerminalHeight = 24
)

// TerminalCheck verifies stdin and stdout are a terminal large enough for
// the dashboard.
type TerminalCheck struct {
	// IsTerminal and Size default to the real stdin/stdout when nil.
	IsTerminal func() bool
	Size       func() (int, int, error)
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return CategoryTerminal }

func (c *TerminalCheck) Run(_ context.Context) CheckResult {
	isTerm := c.IsTerminal
	if isTerm == nil {
		isTerm = func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		}
	}
	size := c.Size
	if size == nil {
		size = func() (int, int, error) { return term.GetSize(int(os.Stdout.Fd())) }
	}

	if !isTerm() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Not running in an interactive terminal",
			Suggestion: "The dashboard needs a terminal on stdin and stdout",
		}
	}

	w, h, err := size()
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusWarn,
			Message: "Terminal size unknown, the dashboard will assume 80x24",
		}
	}
	if w < MinTerminalWidth || h < MinTerminalHeight {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Terminal is %dx%d", w, h),
			Suggestion: fmt.Sprintf("Panels are clipped below %dx%d", MinTerminalWidth, MinTerminalHeight),
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Terminal is %dx%d", w, h),
	}
}

func (c *TerminalCheck) Fix() error {
	return nil
}

// NewSystemChecks creates the resource and terminal checks.
func NewSystemChecks(sampler Sampler) []Check {
	return []Check{
		&ResourceCheck{Sampler: sampler},
		&TerminalCheck{},
	}
}
