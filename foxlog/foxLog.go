// Package foxlog is an optional debug/trace sink for foxwavestream. It is
// never required — a nil *Logger (or a nil hook function) is always safe —
// and the decoder never logs anything that changes its return values.
package foxlog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes timestamped lines to a file, guarded by a mutex so it can be
// shared across goroutines even though the Decoder it's attached to cannot.
type Logger struct {
	mu           sync.Mutex
	logFile      *os.File
	DebugEnabled bool
}

const (
	Debug = "Debug"
	Info  = "Info"
	Warn  = "Warn"
	Error = "Error"
)

// NewLogger opens (or creates) logFilePath for appending.
func NewLogger(logFilePath string, debugEnabled bool) (*Logger, error) {
	f, err := os.OpenFile(
		filepath.Clean(logFilePath),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("foxlog: failed to open log file: %w", err)
	}

	return &Logger{logFile: f, DebugEnabled: debugEnabled}, nil
}

// Log writes a single entry. Debug entries are dropped unless DebugEnabled.
func (l *Logger) Log(level, description string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if level == Debug && !l.DebugEnabled {
		return
	}

	if l.logFile == nil {
		return
	}

	entry := fmt.Sprintf("%s [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05.999999"),
		level,
		description,
	)

	if _, err := l.logFile.WriteString(entry); err != nil {
		log.Printf("foxlog: failed to write log entry: %v", err)
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.Log(Debug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.Log(Info, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.Log(Warn, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.Log(Error, fmt.Sprintf(format, args...)) }

// Close disposes the underlying file handle. Safe to call once.
func (l *Logger) Close() {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		if err := l.logFile.Close(); err != nil {
			log.Printf("foxlog: failed to close log file: %v", err)
		}
		l.logFile = nil
	}
}

// Hook adapts a Logger into the bare func(string) form foxwavestream.Decoder
// accepts, so callers aren't forced to depend on this package just to pass
// a debug sink around.
func (l *Logger) Hook() func(string) {
	if l == nil {
		return nil
	}
	return func(msg string) { l.Log(Debug, msg) }
}
