// Package logger is the process-wide line logger. Every line is prefixed
// with a millisecond timestamp; the level is part of the message text
// ("INFO: ...", "WARNING: ...", "ERROR: ...").
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const timeFormat = "2006-01-02 15:04:05.999"

// Level is the severity parsed from a message prefix.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Hook receives every WARNING, ERROR and FATAL line after it is written.
type Hook func(level Level, message string)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	logFile *os.File
	hook    Hook
	now     = time.Now
)

// Init sends output to the file at path, appending. An empty path keeps
// stderr.
func Init(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open log %s", path)
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	out = f
	return nil
}

// SetOutput sends output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetHook installs h; nil removes it.
func SetHook(h Hook) {
	mu.Lock()
	defer mu.Unlock()
	hook = h
}

// Sync flushes the log file, if any.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Sync()
	}
}

// Close closes the log file and falls back to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	out = os.Stderr
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Msg writes one line.
func Msg(message string) {
	mu.Lock()
	io.WriteString(out, now().Format(timeFormat)+" - "+message+"\n")
	h := hook
	mu.Unlock()

	if h == nil {
		return
	}
	switch level := levelOf(message); level {
	case LevelWarning, LevelError:
		h(level, message)
	}
}

func Infof(format string, args ...interface{}) {
	Msg("INFO: " + fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	Msg("WARNING: " + fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	Msg("ERROR: " + fmt.Sprintf(format, args...))
}

func Fatalf(format string, args ...interface{}) {
	Msg("FATAL: " + fmt.Sprintf(format, args...))
	Sync()
}

func levelOf(message string) Level {
	switch {
	case strings.HasPrefix(message, "ERROR"), strings.HasPrefix(message, "FATAL"):
		return LevelError
	case strings.HasPrefix(message, "WARNING"):
		return LevelWarning
	}
	return LevelInfo
}
