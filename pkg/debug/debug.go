// Package debug provides conditional debug logging for kcal.
//
// Debug logging is enabled by setting the KCAL_DEBUG environment variable
// or `debug: true` in the config file:
//
//	KCAL_DEBUG=1 kcal
//
// Messages go to stderr with timestamps. While the TUI owns the terminal the
// command redirects them to a log file with SetOutput.
// When disabled (default), all debug functions are no-ops.
package debug

import (
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const prefix = "[KCAL_DEBUG] "

var (
	mu      sync.RWMutex
	enabled bool
	logger  *log.Logger
	out     io.Writer = os.Stderr
)

func init() {
	if os.Getenv("KCAL_DEBUG") != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && logger == nil {
		logger = log.New(out, prefix, log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output. Passing nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
	logger = log.New(out, prefix, log.Ltime|log.Lmicroseconds)
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	Log("%s took %v", name, d)
}
