//go:build !windows

package terminal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/rileyhilliard/ktop/internal/event"
)

// WatchResize sends a Resize event on every SIGWINCH until Close.
func (i *Input) WatchResize(fd int) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)

	go func() {
		defer signal.Stop(sig)
		for {
			select {
			case <-i.done:
				return
			case <-sig:
				w, h, err := term.GetSize(fd)
				if err != nil {
					continue
				}
				if !i.send(event.Resize(w, h)) {
					return
				}
			}
		}
	}()
}
