package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the narrow logging surface the engine depends on, so
// tests can swap in a no-op or a recording implementation without
// pulling in logrus.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// logrusLogger adapts *logrus.Logger to the Logger interface.
type logrusLogger struct {
	l *logrus.Logger
}

// NewLogger builds the structured logger used by the CLI frontend.
// Diagnostic output goes to stderr at info level by default; pass
// debug=true to surface index-vs-scan strategy decisions.
func NewLogger(debug bool) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Debugf(format string, args ...interface{}) {
	g.l.Debugf(format, args...)
}

func (g *logrusLogger) Warnf(format string, args ...interface{}) {
	g.l.Warnf(format, args...)
}

func (g *logrusLogger) Errorf(format string, args ...interface{}) {
	g.l.Errorf(format, args...)
}

// nopLogger discards everything; used by tests that don't care about
// diagnostic output.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
