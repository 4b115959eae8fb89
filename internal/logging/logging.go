// Package logging wraps logrus with the small amount of setup every
// binary in this repository needs: JSON output, level from the
// environment, and optional file rotation.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields aliases logrus.Fields so callers don't import logrus directly.
type Fields = logrus.Fields

var global = newLogger()

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(levelFromEnv())
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	return logger
}

func levelFromEnv() logrus.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		return logrus.InfoLevel
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(levelStr)); err == nil {
		return lvl
	}
	return logrus.InfoLevel
}

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	return global
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(component string) *logrus.Entry {
	return global.WithField("component", component)
}

// ConfigureFile sends log output to path with rotation, in addition to
// stderr. An empty path leaves stderr-only output in place.
func ConfigureFile(path string, maxSizeMB, maxBackups int) {
	if path == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	global.SetOutput(io.MultiWriter(os.Stderr, rotator))
}

// SetLevel overrides the level parsed from the environment.
func SetLevel(level string) {
	if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		global.SetLevel(lvl)
	}
}
