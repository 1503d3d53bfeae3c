package logger

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notice is the most recent warning-or-worse record.
type Notice struct {
	Level   slog.Level
	Message string
	Time    time.Time
}

type noticeState struct {
	mu   sync.Mutex
	last Notice
	set  bool
}

// NoticeHandler is a slog.Handler that remembers only the latest record at
// warn level or above. The dashboard shows it in the status bar.
type NoticeHandler struct {
	state     *noticeState
	component string
}

// NewNoticeHandler creates an empty notice sink.
func NewNoticeHandler() *NoticeHandler {
	return &NoticeHandler{state: &noticeState{}}
}

func (h *NoticeHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (h *NoticeHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	if h.component != "" {
		msg = h.component + ": " + msg
	}
	at := r.Time
	if at.IsZero() {
		at = time.Now()
	}

	h.state.mu.Lock()
	h.state.last = Notice{Level: r.Level, Message: msg, Time: at}
	h.state.set = true
	h.state.mu.Unlock()
	return nil
}

func (h *NoticeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &NoticeHandler{state: h.state, component: h.component}
	for _, a := range attrs {
		if a.Key == "component" {
			next.component = a.Value.String()
		}
	}
	return next
}

func (h *NoticeHandler) WithGroup(string) slog.Handler {
	return h
}

// Last returns the most recent notice, if one was recorded.
func (h *NoticeHandler) Last() (Notice, bool) {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	return h.state.last, h.state.set
}
