package terminal

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Default size used when the terminal can't report one.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Screen writes whole frames to the terminal.
type Screen struct {
	w  io.Writer
	fd int
}

// NewScreen creates a screen writing to w. fd is used to query the size;
// pass -1 when w is not a terminal.
func NewScreen(w io.Writer, fd int) *Screen {
	return &Screen{w: w, fd: fd}
}

// Size returns the terminal width and height.
func (s *Screen) Size() (int, int) {
	if s.fd < 0 {
		return DefaultWidth, DefaultHeight
	}
	w, h, err := term.GetSize(s.fd)
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}

// Draw paints frame from the top-left corner. Each line clears what the
// previous frame left to its right, and everything below the last line is
// erased, so a shorter frame leaves no residue. The frame goes out in one
// write.
func (s *Screen) Draw(frame string) error {
	var buf bytes.Buffer
	o := termenv.NewOutput(&buf)

	o.MoveCursor(1, 1)
	lines := strings.Split(frame, "\n")
	for i, line := range lines {
		buf.WriteString(line)
		o.ClearLineRight()
		if i < len(lines)-1 {
			buf.WriteString("\r\n")
		}
	}
	fmt.Fprintf(&buf, termenv.CSI+termenv.EraseDisplaySeq, 0)

	_, err := s.w.Write(buf.Bytes())
	return err
}
