// Package log provides the small logging interface used across the
// emulator core. It exists so that internal packages never depend
// directly on a concrete logging library; only this package does.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the narrow logging surface the core uses. Host embedders can
// provide their own implementation via gameboy.WithLogger.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to Logger.
type logrusLogger struct {
	l *logrus.Logger
}

// New returns a Logger backed by logrus, configured for compact,
// single-line, color-free output suitable for either a terminal or a
// redirected log file.
func New() Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return &logrusLogger{l: l}
}

// NewDebug is New with the level lowered to Debug, for CPU/PPU trace
// investigations.
func NewDebug() Logger {
	l := New().(*logrusLogger)
	l.l.SetLevel(logrus.DebugLevel)
	return l
}

func (g *logrusLogger) Infof(format string, args ...interface{})  { g.l.Infof(format, args...) }
func (g *logrusLogger) Errorf(format string, args ...interface{}) { g.l.Errorf(format, args...) }
func (g *logrusLogger) Debugf(format string, args ...interface{}) { g.l.Debugf(format, args...) }
