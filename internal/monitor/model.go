package monitor

import (
	"context"
	"time"

	"github.com/rileyhilliard/ktop/internal/errors"
	"github.com/rileyhilliard/ktop/internal/event"
	"github.com/rileyhilliard/ktop/internal/logger"
	"github.com/rileyhilliard/ktop/internal/queue"
	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// Tabs are the tab titles in display order.
var Tabs = []string{"System", "Git"}

// Tab indexes into Tabs.
const (
	TabSystem = 0
	TabGit    = 1
)

// Renderer draws a full frame. Size reports the current terminal size.
type Renderer interface {
	Size() (width, height int)
	Draw(frame string) error
}

// Refresher asks every running source for an immediate collection.
type Refresher interface {
	Refresh()
}

// NoticeSource returns the most recent warning worth showing in the status bar.
type NoticeSource interface {
	Last() (logger.Notice, bool)
}

// Options configures a Dashboard.
type Options struct {
	Renderer  Renderer
	Refresher Refresher
	Notices   NoticeSource

	// ConfigNotice is shown in the status bar until a newer notice arrives.
	ConfigNotice string
	// ReposEnabled is false when no repository paths are configured.
	ReposEnabled bool
	HistorySize  int

	Log logger.Logger
	Now func() time.Time
}

// Dashboard is the single-threaded controller. All of its state is owned
// by the goroutine calling Run.
type Dashboard struct {
	state     State
	keys      KeyMap
	resources *ResourcePanel
	repos     *RepoPanel

	width  int
	height int
	frames int

	renderer     Renderer
	refresher    Refresher
	notices      NoticeSource
	configNotice string
	reposEnabled bool
	log          logger.Logger
	now          func() time.Time
}

// NewDashboard creates a dashboard on the first tab.
func NewDashboard(opts Options) *Dashboard {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Dashboard{
		state:        State{Tab: TabSystem, Running: true},
		keys:         DefaultKeyMap(),
		resources:    NewResourcePanel(opts.HistorySize),
		repos:        NewRepoPanel(),
		renderer:     opts.Renderer,
		refresher:    opts.Refresher,
		notices:      opts.Notices,
		configNotice: opts.ConfigNotice,
		reposEnabled: opts.ReposEnabled,
		log:          log,
		now:          now,
	}
}

// Run renders, waits for the first ready event or snapshot, applies it, and
// repeats until Quit. It returns nil on Quit or when ctx is cancelled, and an
// error only when a frame cannot be written.
func (d *Dashboard) Run(ctx context.Context, events *queue.Queue[event.Event], snaps *queue.Queue[snapshot.Snapshot]) error {
	if d.renderer == nil {
		return errors.New(errors.ErrTerminal, "dashboard has no renderer", "")
	}
	d.width, d.height = d.renderer.Size()

	for d.state.Running {
		if err := d.draw(); err != nil {
			return err
		}
		if !d.step(ctx, events, snaps) {
			d.log.Debug("dashboard cancelled after %d frame(s)", d.frames)
			return nil
		}
	}

	d.log.Debug("dashboard quit after %d frame(s)", d.frames)
	return nil
}

// step applies exactly one item. Spurious wakeups go back to waiting
// without a redraw. It returns false when ctx is done.
func (d *Dashboard) step(ctx context.Context, events *queue.Queue[event.Event], snaps *queue.Queue[snapshot.Snapshot]) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-events.Ready():
			if ev, ok := events.TryPop(); ok {
				d.HandleEvent(ev)
				return true
			}
		case <-snaps.Ready():
			if s, ok := snaps.TryPop(); ok {
				d.Absorb(s)
				return true
			}
		}
	}
}

func (d *Dashboard) draw() error {
	d.frames++
	if err := d.renderer.Draw(d.View()); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Couldn't draw the dashboard",
			"The terminal may have been closed.")
	}
	return nil
}

// HandleEvent applies one event. Ticks change nothing and only lead to the
// next redraw.
func (d *Dashboard) HandleEvent(ev event.Event) {
	switch ev.Kind {
	case event.KindResize:
		d.width, d.height = ev.Width, ev.Height
	case event.KindKey:
		d.Dispatch(d.keys.Interpret(ev))
	}
}

// Dispatch applies an action.
func (d *Dashboard) Dispatch(a Action) {
	if a == ActionNone {
		return
	}
	d.state = Reduce(d.state, a, len(Tabs))
	if a == ActionRefresh && d.refresher != nil {
		d.refresher.Refresh()
	}
	d.log.Debug("action %s, tab %d", a, d.state.Tab)
}

// Absorb hands a snapshot to the panel of its category.
func (d *Dashboard) Absorb(s snapshot.Snapshot) {
	for _, p := range []Panel{d.resources, d.repos} {
		if p.Absorb(s) {
			return
		}
	}
	d.log.Debug("no panel took %s snapshot", s.Kind)
}

// State returns the tab selection and running flag.
func (d *Dashboard) State() State { return d.state }

// ResourcePanel returns the resource panel.
func (d *Dashboard) ResourcePanel() *ResourcePanel { return d.resources }

// RepoPanel returns the repository panel.
func (d *Dashboard) RepoPanel() *RepoPanel { return d.repos }

// Frames returns how many frames have been drawn.
func (d *Dashboard) Frames() int { return d.frames }
