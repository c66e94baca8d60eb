package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	forced bool
)

// DebugEnabled returns true if debug mode is enabled via TODO_DEBUG or Enable
func DebugEnabled() bool {
	mu.Lock()
	f := forced
	mu.Unlock()
	return f || os.Getenv("TODO_DEBUG") != ""
}

// Enable turns debug output on regardless of TODO_DEBUG (the --verbose flag)
func Enable(on bool) {
	mu.Lock()
	forced = on
	mu.Unlock()
}

// SetOutput redirects debug output and returns the previous writer
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, format, args...)
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(output, args...)
}
