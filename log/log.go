// Package log provides the package-level zerolog logger shared by cstr
// packages. It discards everything until SetOutput installs a writer, so
// library users pay nothing for the debug events.
package log

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu        sync.RWMutex
	pkgLogger = zerolog.Nop()
)

// SetOutput logs JSON (or whatever w renders) to w at the given level.
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	pkgLogger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Disable restores the no-op logger.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	pkgLogger = zerolog.Nop()
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

// Debug starts a debug level event. Reallocations are logged here.
func Debug() *zerolog.Event { return logger().Debug() }

// Info starts an info level event.
func Info() *zerolog.Event { return logger().Info() }

// Warn starts a warn level event. Failed shrinks are logged here.
func Warn() *zerolog.Event { return logger().Warn() }

// Error starts an error level event.
func Error() *zerolog.Event { return logger().Error() }

// Status reports the outcome of fn. Successful calls are logged at debug
// level, failures at error level with the status name attached.
func Status(fn, status string, err error) {
	if err == nil {
		Debug().Str("func", fn).Str("status", status).Send()
		return
	}
	Error().Str("func", fn).Str("status", status).Err(err).Send()
}
