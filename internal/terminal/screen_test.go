package terminal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestScreen_Draw(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf, -1)

	assert.NoError(t, s.Draw("one\ntwo"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, termenv.CSI+"1;1H"), "frame starts at the home position")
	assert.Contains(t, out, "one"+termenv.CSI+termenv.EraseLineRightSeq+"\r\ntwo")
	assert.True(t, strings.HasSuffix(out, termenv.CSI+"0J"), "frame clears below the last line")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestScreen_DrawError(t *testing.T) {
	assert.Error(t, NewScreen(failingWriter{}, -1).Draw("x"))
}

func TestScreen_SizeFallback(t *testing.T) {
	w, h := NewScreen(&bytes.Buffer{}, -1).Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
}
