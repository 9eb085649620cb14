// Package logging carries a charmbracelet logger through context.Context.
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger with timestamps formatted as "HH:MM:SS.ms"
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// ParseLevel converts a config level name to a log level. Unknown names fall
// back to info.
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Progress logs the elapsed time of an operation when it completes
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// NewProgress starts timing an operation
func NewProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done logs msg with the elapsed time rounded to the millisecond
func (p *Progress) Done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a context carrying l
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger carried by ctx, or log.Default()
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
