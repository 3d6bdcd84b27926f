// Package logger provides verbose logging for proofmark.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to follow the analysis cycle: debounce, provider
// calls, stale responses and suppressed matches.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[DEBUG] "+format+"\n", args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[INFO] "+format+"\n", args...)
	}
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
	}
}

// Component tags log lines with the name of the part of the analysis
// cycle that wrote them, e.g. "[DEBUG] scheduler: generation 3 is stale".
type Component string

// For returns a Component logger for name.
func For(name string) Component {
	return Component(name)
}

// Debug prints a tagged debug message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	Debug(string(c)+": "+format, args...)
}

// Info prints a tagged informational message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	Info(string(c)+": "+format, args...)
}

// Warn prints a tagged warning if verbose mode is enabled.
func (c Component) Warn(format string, args ...any) {
	Warn(string(c)+": "+format, args...)
}
