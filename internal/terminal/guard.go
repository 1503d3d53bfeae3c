package terminal

import (
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/rileyhilliard/ktop/internal/errors"
)

// Guard holds the terminal in raw mode on the alternate screen. Release
// restores it and is safe to call any number of times.
type Guard struct {
	out     *termenv.Output
	restore func() error

	mu       sync.Mutex
	released bool
}

// Acquire switches in to raw mode and out to the alternate screen with a
// hidden cursor. If anything fails, whatever was already changed is undone.
func Acquire(in, out *os.File) (*Guard, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New(errors.ErrTerminal,
			"stdin is not a terminal",
			"Run ktop from an interactive terminal")
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTerminal,
			"Cannot switch the terminal to raw mode",
			"Run ktop from an interactive terminal")
	}

	return newGuard(out, func() error { return term.Restore(fd, state) }), nil
}

func newGuard(w io.Writer, restore func() error) *Guard {
	g := &Guard{
		out:     termenv.NewOutput(w),
		restore: restore,
	}
	g.out.AltScreen()
	g.out.HideCursor()
	g.out.ClearScreen()
	return g
}

// Output is the terminal output the guard wraps.
func (g *Guard) Output() *termenv.Output {
	return g.out
}

// Release leaves the alternate screen, shows the cursor and restores the
// saved terminal mode. Only the first call does anything.
func (g *Guard) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.released {
		return nil
	}
	g.released = true

	g.out.ShowCursor()
	g.out.ExitAltScreen()
	if err := g.restore(); err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Cannot restore the terminal",
			"Run 'reset' to recover the terminal")
	}
	return nil
}

// Protect runs fn and releases the guard on every way out of it, panics
// included. A panic is re-raised after the terminal has been restored so
// the trace prints on a sane screen.
func (g *Guard) Protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = g.Release()
			panic(r)
		}
		if relErr := g.Release(); relErr != nil && err == nil {
			err = relErr
		}
	}()
	return fn()
}
