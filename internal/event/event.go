// Package event merges terminal input and the redraw timer into one queue.
package event

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/ktop/internal/logger"
)

// Kind tags an Event.
type Kind int

const (
	// KindKey is a key press.
	KindKey Kind = iota + 1
	// KindTick is a redraw timer tick.
	KindTick
	// KindResize is a terminal size change.
	KindResize
)

// Event is one item for the dashboard loop.
type Event struct {
	Kind   Kind
	Key    tea.KeyMsg
	Width  int
	Height int
}

// Key builds a key press event.
func Key(k tea.KeyMsg) Event { return Event{Kind: KindKey, Key: k} }

// Tick builds a redraw tick event.
func Tick() Event { return Event{Kind: KindTick} }

// Resize builds a resize event.
func Resize(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		return "key(" + e.Key.String() + ")"
	case KindTick:
		return "tick"
	case KindResize:
		return fmt.Sprintf("resize(%dx%d)", e.Width, e.Height)
	default:
		return "unknown"
	}
}

// Sink receives merged events. Push fails once the consumer is gone.
type Sink interface {
	Push(Event) error
}

// Multiplexer forwards terminal input and emits a Tick every period.
type Multiplexer struct {
	period time.Duration
	input  <-chan Event
	log    logger.Logger
}

// NewMultiplexer creates a multiplexer over input with the given tick period.
// input carries key and resize events; a nil channel means no input.
func NewMultiplexer(period time.Duration, input <-chan Event, log logger.Logger) *Multiplexer {
	if log == nil {
		log = logger.Noop()
	}
	return &Multiplexer{period: period, input: input, log: log}
}

// Run pushes events into sink until ctx is done or a push fails. Whichever
// of input and tick is ready first goes first; nothing is dropped here.
func (m *Multiplexer) Run(ctx context.Context, sink Sink) {
	period := m.period
	if period <= 0 {
		period = 250 * time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	input := m.input
	for {
		var ev Event
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev = Tick()
		case in, ok := <-input:
			if !ok {
				// Input ended (stdin closed). Ticks keep the screen alive.
				m.log.Debug("input stream closed")
				input = nil
				continue
			}
			ev = in
		}
		if err := sink.Push(ev); err != nil {
			return
		}
	}
}
