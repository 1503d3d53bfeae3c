package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Spinner animates a label while a slow command step runs, then replaces
// it with one status line and the elapsed time. Writers that aren't a
// terminal get only the status line.
type Spinner struct {
	w      io.Writer
	label  string
	frames spinner.Spinner
	tty    bool
	now    func() time.Time

	mu      sync.Mutex
	started time.Time
	drawn   int // visible width of the frame on screen
	stop    chan struct{}
	done    chan struct{}
	outcome *Level
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	f, ok := w.(*os.File)
	return &Spinner{
		w:      w,
		label:  label,
		frames: spinner.MiniDot,
		tty:    ok && isatty.IsTerminal(f.Fd()),
		now:    time.Now,
	}
}

// Start records the start time and, on a terminal, begins animating.
// Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.started = s.now()
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	if !s.tty {
		close(s.done)
		return
	}
	s.drawLocked(0)
	go s.animate()
}

// Success ends the spinner with a pass line.
func (s *Spinner) Success() { s.finish(LevelPass) }

// Skip ends the spinner with a warning line.
func (s *Spinner) Skip() { s.finish(LevelWarn) }

// Fail ends the spinner with a failure line.
func (s *Spinner) Fail() { s.finish(LevelFail) }

// Outcome reports how the spinner ended; ok is false while it is running.
func (s *Spinner) Outcome() (level Level, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return LevelInfo, false
	}
	return *s.outcome, true
}

func (s *Spinner) finish(level Level) {
	s.mu.Lock()
	if s.stop == nil || s.outcome != nil {
		s.mu.Unlock()
		return
	}
	s.outcome = &level
	close(s.stop)
	s.mu.Unlock()

	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	fmt.Fprintf(s.w, "%s %s %s\n", Symbol(level), s.label,
		mutedStyle.Render(formatElapsed(s.now().Sub(s.started))))
}

func (s *Spinner) animate() {
	defer close(s.done)
	ticker := time.NewTicker(s.frames.FPS)
	defer ticker.Stop()

	for frame := 1; ; frame++ {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.drawLocked(frame)
			s.mu.Unlock()
		}
	}
}

// drawLocked paints frame n over the previous one. Caller holds mu.
func (s *Spinner) drawLocked(n int) {
	glyph := s.frames.Frames[n%len(s.frames.Frames)]
	color := GradientColors[(n/2)%len(GradientColors)]
	line := lipgloss.NewStyle().Foreground(color).Render(glyph) + " " + s.label + "..."

	s.clearLocked()
	fmt.Fprint(s.w, line)
	s.drawn = lipgloss.Width(line)
}

func (s *Spinner) clearLocked() {
	if s.drawn == 0 {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.drawn)+"\r")
	s.drawn = 0
}

// formatElapsed renders d as "0.05s" below a tenth of a second and
// "1.2s" otherwise.
func formatElapsed(d time.Duration) string {
	if d < 100*time.Millisecond {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
