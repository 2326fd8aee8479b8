package auth

import (
	"fmt"
	"log/slog"
	"strings"
)

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }

func (d defLogger) Info(msg string, args ...any) { d.print("INF", msg, args...) }

func (d defLogger) Warn(msg string, args ...any) { d.print("WRN", msg, args...) }

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }

func (defLogger) print(level, msg string, args ...any) {
	var b strings.Builder
	b.WriteString("[" + level + "] AUTH " + msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
			continue
		}
		fmt.Fprintf(&b, " %v", args[i])
	}
	fmt.Println(b.String())
}

// SlogLogger adapts a *slog.Logger to Logger
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l. A nil logger falls back to slog.Default().
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }

func (s *SlogLogger) Info(msg string, args ...any) { s.l.Info(msg, args...) }

func (s *SlogLogger) Warn(msg string, args ...any) { s.l.Warn(msg, args...) }

func (s *SlogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

// Named returns a child logger tagged with a component name.
func (s *SlogLogger) Named(name string) *SlogLogger {
	return &SlogLogger{l: s.l.With("component", name)}
}

func normalizeLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
