// Package compat adapts daylog to the logging interfaces of frameworks the
// surrounding application may already run: gnet engines, fasthttp servers,
// and fiber's CommonLogger family. Every adapter tags its records with a
// source field so mixed output stays attributable.
package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/ferrmin/daylog"
)

// flushGrace bounds the flush wait before an adapter hands control to a
// fatal or panic handler
const flushGrace = 100 * time.Millisecond

// GnetAdapter satisfies gnet's logging.Logger with records routed through a
// daylog.Logger. Fatalf flushes before invoking the fatal handler so the
// final record reaches disk.
type GnetAdapter struct {
	logger       *daylog.Logger
	fatalHandler func(msg string)
}

// GnetOption adjusts adapter construction
type GnetOption func(*GnetAdapter)

// WithFatalHandler replaces the exit behavior of Fatalf. The default
// handler calls os.Exit(1), matching what gnet expects of a fatal log.
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// NewGnetAdapter builds an adapter over an already configured logger
func NewGnetAdapter(logger *daylog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger:       logger,
		fatalHandler: func(string) { os.Exit(1) },
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// emit renders the printf payload once and hands it to the engine
func (a *GnetAdapter) emit(level int64, format string, args []any) {
	a.logger.Write(level, fmt.Sprintf(format, args...), "source", "gnet")
}

func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.emit(daylog.LevelDebug, format, args)
}

func (a *GnetAdapter) Infof(format string, args ...any) {
	a.emit(daylog.LevelInfo, format, args)
}

func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.emit(daylog.LevelWarn, format, args)
}

func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.emit(daylog.LevelError, format, args)
}

// Fatalf records the failure, flushes, then runs the fatal handler.
// The handler normally does not return.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Error(msg, "source", "gnet", "fatal", true)

	_ = a.logger.Flush(flushGrace)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
