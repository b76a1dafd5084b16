// Package logger provides component-scoped structured logging for the
// adapter processes. Everything is written to stderr: stdout carries the
// MCP wire protocol and must stay clean.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).Level(zerolog.InfoLevel).With().Timestamp().Logger()
)

// C returns a logger scoped to one component ("session", "dispatch", ...).
func C(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}

// SetDebug switches the global level between debug and info.
func SetDebug(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	base = base.Level(level)
}

// SetOutput redirects all loggers, used by tests to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Output(w)
}
