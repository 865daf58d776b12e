package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level orders diagnostic output from the most to the least verbose.
// A logger prints every line whose level is at or above its own.
type Level int

const (
	All Level = iota
	Debug
	Info
	Warn
	Error
	None
)

var levelNames = map[Level]string{
	All:   "all",
	Debug: "debug",
	Info:  "info",
	Warn:  "warn",
	Error: "error",
	None:  "none",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "level(" + strconv.Itoa(int(l)) + ")"
}

// ParseLevel accepts either a level name or its number (0 = all ... 5 = none).
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < int(All) || n > int(None) {
			return None, fmt.Errorf("logging: level must be between %d and %d, got %d", All, None, n)
		}
		return Level(n), nil
	}
	for level, name := range levelNames {
		if name == s {
			return level, nil
		}
	}
	return None, fmt.Errorf("logging: unknown level %q", s)
}

// Logger writes timestamped lines tagged with a component name.
// A nil *Logger discards everything, so it can be passed around freely.
type Logger struct {
	// mu is shared with every Named child writing to out.
	mu    *sync.Mutex
	out   io.Writer
	level Level
	name  string
}

// New returns a logger writing to out. A nil writer means stderr.
func New(out io.Writer, level Level) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{mu: new(sync.Mutex), out: out, level: level}
}

// Named returns a logger sharing the writer and level but tagging lines with name.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{mu: l.mu, out: l.out, level: l.level, name: name}
}

// Enabled reports whether a line at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.level < None && level >= l.level
}

func (l *Logger) Debugf(format string, args ...any) { l.printf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.printf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.printf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.printf(Error, format, args...) }

func (l *Logger) printf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	timestamp := time.Now().Format(time.RFC3339)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.name != "" {
		fmt.Fprintf(l.out, "[%s] %-5s %s: %s\n", timestamp, level, l.name, line)
		return
	}
	fmt.Fprintf(l.out, "[%s] %-5s %s\n", timestamp, level, line)
}
