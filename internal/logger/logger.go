// Package logger is the process-wide logrus logger. Console output goes to
// stderr because stdout carries the MCP transport.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*logrus.Logger
	fileLogger *logrus.Logger
	rotator    *lumberjack.Logger
}

var (
	mu            sync.RWMutex
	defaultLogger = newConsole(os.Stderr, logrus.InfoLevel)
)

func newConsole(w io.Writer, level logrus.Level) *Logger {
	console := logrus.New()
	console.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	console.SetOutput(w)
	console.SetLevel(level)
	return &Logger{Logger: console}
}

// Configure replaces the default logger. level is a logrus level name
// ("debug", "info", ...). When file is non-empty a rotating JSON log is
// written there as well.
func Configure(level, file string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	l := newConsole(os.Stderr, lvl)
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
			return err
		}
		l.rotator = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		l.fileLogger = logrus.New()
		l.fileLogger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
		l.fileLogger.SetOutput(l.rotator)
		l.fileLogger.SetLevel(lvl)
	}

	mu.Lock()
	old := defaultLogger
	defaultLogger = l
	mu.Unlock()
	old.close()
	return nil
}

// SetOutput redirects console output. Used by tests.
func SetOutput(w io.Writer) {
	mu.RLock()
	defer mu.RUnlock()
	defaultLogger.SetOutput(w)
}

// Close flushes and closes the rotating log file, if any.
func Close() {
	mu.RLock()
	defer mu.RUnlock()
	defaultLogger.close()
}

func (l *Logger) close() {
	if l.rotator != nil {
		_ = l.rotator.Close()
	}
}

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// WithFields returns an entry on the console logger for structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return current().WithFields(fields)
}

func Infof(format string, args ...any) {
	l := current()
	l.Logger.Infof(format, args...)
	if l.fileLogger != nil {
		l.fileLogger.Infof(format, args...)
	}
}

func Warnf(format string, args ...any) {
	l := current()
	l.Logger.Warnf(format, args...)
	if l.fileLogger != nil {
		l.fileLogger.Warnf(format, args...)
	}
}

func Errorf(format string, args ...any) {
	l := current()
	l.Logger.Errorf(format, args...)
	if l.fileLogger != nil {
		l.fileLogger.Errorf(format, args...)
	}
}

func Debugf(format string, args ...any) {
	l := current()
	l.Logger.Debugf(format, args...)
	if l.fileLogger != nil {
		l.fileLogger.Debugf(format, args...)
	}
}
