// Package logger provides namespaced debug logging controlled by the DEBUG
// environment variable, in the style of the npm debug package:
//
//	DEBUG=*                enables every logger
//	DEBUG=ontology:*       enables a whole namespace
//	DEBUG=a,b              enables specific namespaces
//	DEBUG=ontology:*,-ontology:index  enables a namespace minus exclusions
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// debugEnv is read once at process start; loggers compute their enabled
// state at construction time.
var debugEnv = os.Getenv("DEBUG")

// Logger writes debug lines for a single namespace to stderr.
type Logger struct {
	namespace string
	enabled   bool

	mu      sync.Mutex
	lastLog time.Time
}

// New creates a logger for the given namespace.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   enabledFor(namespace, debugEnv),
		lastLog:   time.Now(),
	}
}

// Enabled reports whether this logger emits output.
func (l *Logger) Enabled() bool { return l.enabled }

// Printf logs a formatted line if the logger is enabled. The elapsed time
// since the previous line from this logger is appended.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprintf(format, args...))
}

// Print logs a line if the logger is enabled.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprint(args...))
}

func (l *Logger) emit(message string) {
	l.mu.Lock()
	now := time.Now()
	diff := now.Sub(l.lastLog)
	l.lastLog = now
	l.mu.Unlock()

	fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, message, formatElapsed(diff))
}

// formatElapsed renders a duration compactly (1ms, 2.3s, 4m).
func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}

// enabledFor evaluates the DEBUG pattern list for a namespace. Exclusion
// patterns (leading '-') take precedence over matches.
func enabledFor(namespace, patterns string) bool {
	enabled := false
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if exclude, ok := strings.CutPrefix(pattern, "-"); ok {
			if matches(namespace, exclude) {
				return false
			}
			continue
		}
		if matches(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

// matches supports a single '*' wildcard at either end or in the middle.
func matches(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	prefix, suffix, _ := strings.Cut(pattern, "*")
	return strings.HasPrefix(namespace, prefix) && strings.HasSuffix(namespace, suffix)
}
