package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the structured logging pipeline.
type Options struct {
	// File is a rotating log file. Empty means no file is written.
	File string

	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string

	// TUI is set while the dashboard owns the terminal. Records then go
	// only to File and to the notice sink, never to Stderr.
	TUI bool

	// Stderr overrides os.Stderr for non-TUI output.
	Stderr io.Writer
}

// Pipeline is a configured slog logger plus the sinks it writes to.
type Pipeline struct {
	Logger  *slog.Logger
	Notices *NoticeHandler

	file *lumberjack.Logger
}

// ParseLevel maps a level name to a slog level. KTOP_DEBUG forces debug.
func ParseLevel(level string) slog.Level {
	if os.Getenv(DebugEnv) != "" {
		return slog.LevelDebug
	}
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the logging pipeline described by opts.
func Setup(opts Options) (*Pipeline, error) {
	lvl := ParseLevel(opts.Level)
	p := &Pipeline{Notices: NewNoticeHandler()}
	handlers := []slog.Handler{p.Notices}

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		p.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		}
		handlers = append(handlers, tint.NewHandler(p.file, &tint.Options{
			Level:      lvl,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}))
	}

	if !opts.TUI {
		w := opts.Stderr
		if w == nil {
			w = os.Stderr
		}
		handlers = append(handlers, tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.TimeOnly,
			NoColor:    !colorWriter(w),
		}))
	}

	p.Logger = slog.New(NewMultiHandler(handlers...))
	return p, nil
}

// Close releases the log file, if any.
func (p *Pipeline) Close() error {
	if p == nil || p.file == nil {
		return nil
	}
	return p.file.Close()
}

func colorWriter(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// MultiHandler fans a record out to several handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler combines handlers into one.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}

// slogLogger adapts a *slog.Logger to the printf-style Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// FromSlog returns a Logger that writes through l, tagging every record
// with the given component name.
func FromSlog(l *slog.Logger, component string) Logger {
	if component != "" {
		l = l.With("component", component)
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debug(format string, args ...interface{}) {
	s.l.Debug(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Info(format string, args ...interface{}) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Warn(format string, args ...interface{}) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

func (s *slogLogger) Error(format string, args ...interface{}) {
	s.l.Error(fmt.Sprintf(format, args...))
}
