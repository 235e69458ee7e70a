// Package notify defines the user-facing notification sink the domain layer
// emits feedback through. The HTTP layer collects notices per request and
// returns them in response bodies for the UI to render.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Severity classifies a notice for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a single user-visible message.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Sink receives user-visible notices.
type Sink interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Collector is a Sink that accumulates notices in order. Safe for concurrent
// use; a fresh Collector is created per request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) add(sev Severity, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Severity: sev, Message: msg})
}

func (c *Collector) Success(msg string) { c.add(SeveritySuccess, msg) }
func (c *Collector) Info(msg string)    { c.add(SeverityInfo, msg) }
func (c *Collector) Warning(msg string) { c.add(SeverityWarning, msg) }
func (c *Collector) Error(msg string)   { c.add(SeverityError, msg) }

// Notices returns a copy of the collected notices in emission order.
func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

// Logger is a Sink that writes notices to a zap logger. Used where no
// request-scoped collector exists (background work, tooling).
type Logger struct {
	lg *zap.Logger
}

// NewLogger returns a Sink backed by lg.
func NewLogger(lg *zap.Logger) *Logger {
	return &Logger{lg: lg}
}

func (l *Logger) Success(msg string) { l.lg.Info(msg, zap.String("severity", "success")) }
func (l *Logger) Info(msg string)    { l.lg.Info(msg, zap.String("severity", "info")) }
func (l *Logger) Warning(msg string) { l.lg.Warn(msg) }
func (l *Logger) Error(msg string)   { l.lg.Error(msg) }
