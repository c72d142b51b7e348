// Package logging provides the buffer pool manager's structured logging,
// a thin wrapper over logrus grounded in the example pack's own
// logger/logger.go: one configurable package-level logger instead of
// scattering fmt.Println/fmt.Printf through the storage packages.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// SetLevel parses level ("debug", "info", "warn", "error") and applies it
// to the package logger; unrecognized levels fall back to info.
func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects where log lines are written; tests use this to
// capture print_self's output.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Fields is re-exported so callers don't need to import logrus directly.
type Fields = logrus.Fields

// Debugf logs eviction/victim-selection tracing below the default level.
func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

// Infof logs at the default level.
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// WithFields logs one structured line carrying fields, used by
// print_self for its per-frame dump.
func WithFields(fields Fields, msg string) {
	log.WithFields(fields).Info(msg)
}
