// Package clog is the shared structured-logging shim used by every layer
// of the stack, from the bit codec up through the application facade. It
// keeps the same enable/disable-and-swap-provider shape as a plain stdlib
// logger but backs the default provider with logrus so log level and
// output format are controlled the way the rest of the pack's network
// daemons do it.
package clog

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// LogProvider carries RFC5424-ish severities: Critical, Error, Warn, Debug.
type LogProvider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Clog is the per-component logging handle. Copying it is cheap and
// intentional: every node, connection and command class instance embeds
// one.
type Clog struct {
	provider LogProvider
	// is log output enabled, 1: enable, 0: disable
	has uint32
}

// NewLogger creates a logger backed by logrus, with the given prefix
// attached as a "component" field. Output is enabled by default: a
// protocol daemon should log decode errors and unhandled frames (spec §7)
// without extra setup.
func NewLogger(component string) Clog {
	return Clog{
		provider: logrusLogger{logrus.WithField("component", component)},
		has:      1,
	}
}

// LogMode enables or disables output without touching the configured
// provider.
func (sf *Clog) LogMode(enable bool) {
	if enable {
		atomic.StoreUint32(&sf.has, 1)
	} else {
		atomic.StoreUint32(&sf.has, 0)
	}
}

// SetLogProvider swaps the backing provider, e.g. to route through a test
// hook or an embedding application's own logger.
func (sf *Clog) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.provider = p
	}
}

// Critical logs a CRITICAL-level message.
func (sf Clog) Critical(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Critical(format, v...)
	}
}

// Error logs an ERROR-level message.
func (sf Clog) Error(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Error(format, v...)
	}
}

// Warn logs a WARN-level message.
func (sf Clog) Warn(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Warn(format, v...)
	}
}

// Debug logs a DEBUG-level message.
func (sf Clog) Debug(format string, v ...interface{}) {
	if atomic.LoadUint32(&sf.has) == 1 {
		sf.provider.Debug(format, v...)
	}
}

// logrusLogger adapts a *logrus.Entry to LogProvider.
type logrusLogger struct {
	entry *logrus.Entry
}

var _ LogProvider = logrusLogger{}

func (sf logrusLogger) Critical(format string, v ...interface{}) {
	sf.entry.WithField("severity", "critical").Errorf(format, v...)
}
func (sf logrusLogger) Error(format string, v ...interface{})    { sf.entry.Errorf(format, v...) }
func (sf logrusLogger) Warn(format string, v ...interface{})     { sf.entry.Warnf(format, v...) }
func (sf logrusLogger) Debug(format string, v ...interface{})    { sf.entry.Debugf(format, v...) }
