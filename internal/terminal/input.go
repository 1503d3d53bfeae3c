package terminal

import (
	"io"
	"sync"

	"github.com/muesli/cancelreader"

	"github.com/rileyhilliard/ktop/internal/event"
)

// Input reads key presses (and, once WatchResize is called, size changes)
// from a terminal and delivers them as events on one channel.
type Input struct {
	r      cancelreader.CancelReader
	events chan event.Event
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewInput wraps in with a reader that Close can interrupt.
func NewInput(in io.Reader) (*Input, error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, err
	}
	return &Input{
		r:      r,
		events: make(chan event.Event),
		done:   make(chan struct{}),
	}, nil
}

// Events delivers key and resize events. It is never closed; stop
// receiving after Close.
func (i *Input) Events() <-chan event.Event {
	return i.events
}

// Start begins reading on a new goroutine.
func (i *Input) Start() {
	i.wg.Add(1)
	go i.readLoop()
}

func (i *Input) readLoop() {
	defer i.wg.Done()

	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := i.r.Read(buf)
		pending = append(pending, buf[:n]...)

		keys, rest := decodePartial(pending)
		if err != nil || len(rest) > maxPending {
			keys = append(keys, Decode(rest)...)
			rest = nil
		}
		pending = append(pending[:0], rest...)

		for _, k := range keys {
			if !i.send(event.Key(k)) {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// maxPending caps how many undecoded bytes are carried between reads. A
// sequence that never terminates is flushed rather than held forever.
const maxPending = 64

// Close stops the reader. When the platform can interrupt a pending read
// it also waits for the goroutine to exit; otherwise the goroutine ends on
// the next byte or EOF.
func (i *Input) Close() error {
	var err error
	i.once.Do(func() {
		close(i.done)
		if i.r.Cancel() {
			i.wg.Wait()
		}
		err = i.r.Close()
	})
	return err
}

// send delivers ev unless the input is closing.
func (i *Input) send(ev event.Event) bool {
	select {
	case i.events <- ev:
		return true
	case <-i.done:
		return false
	}
}
