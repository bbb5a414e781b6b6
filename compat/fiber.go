package compat

import (
	"fmt"
	"os"

	"github.com/ferrmin/daylog"
)

// FiberAdapter implements fiber's CommonLogger surface (Logger,
// FormatLogger and WithLogger method sets) over a daylog.Logger, without
// importing fiber itself. Fiber has no trace or panic level in daylog
// terms: trace maps to debug with a level field, panic to error with a
// panic field.
type FiberAdapter struct {
	logger       *daylog.Logger
	fatalHandler func(msg string)
	panicHandler func(msg string)
}

// FiberOption adjusts adapter construction
type FiberOption func(*FiberAdapter)

// WithFiberFatalHandler replaces the exit behavior of the Fatal variants.
// The default handler calls os.Exit(1).
func WithFiberFatalHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.fatalHandler = handler
	}
}

// WithFiberPanicHandler replaces the escalation behavior of the Panic
// variants. The default handler panics with the message.
func WithFiberPanicHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.panicHandler = handler
	}
}

// NewFiberAdapter builds an adapter over an already configured logger
func NewFiberAdapter(logger *daylog.Logger, opts ...FiberOption) *FiberAdapter {
	adapter := &FiberAdapter{
		logger:       logger,
		fatalHandler: func(string) { os.Exit(1) },
		panicHandler: func(msg string) { panic(msg) },
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// tag prepends the source marker and any extra fixed fields to the caller's
// key/value pairs
func tag(extra []any, keysAndValues []any) []any {
	fields := make([]any, 0, len(extra)+len(keysAndValues)+2)
	fields = append(fields, "source", "fiber")
	fields = append(fields, extra...)
	fields = append(fields, keysAndValues...)
	return fields
}

// terminate flushes and runs the fatal handler after a fatal record.
// The handler normally does not return.
func (a *FiberAdapter) terminate(msg string) {
	_ = a.logger.Flush(flushGrace)
	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

// escalate flushes and runs the panic handler after a panic record
func (a *FiberAdapter) escalate(msg string) {
	_ = a.logger.Flush(flushGrace)
	if a.panicHandler != nil {
		a.panicHandler(msg)
	}
}

// Logger interface: print-style calls.

func (a *FiberAdapter) Trace(v ...any) {
	a.logger.Debug(fmt.Sprint(v...), tag([]any{"level", "trace"}, nil)...)
}

func (a *FiberAdapter) Debug(v ...any) {
	a.logger.Debug(fmt.Sprint(v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Info(v ...any) {
	a.logger.Info(fmt.Sprint(v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Warn(v ...any) {
	a.logger.Warn(fmt.Sprint(v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Error(v ...any) {
	a.logger.Error(fmt.Sprint(v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Fatal(v ...any) {
	msg := fmt.Sprint(v...)
	a.logger.Error(msg, tag([]any{"fatal", true}, nil)...)
	a.terminate(msg)
}

func (a *FiberAdapter) Panic(v ...any) {
	msg := fmt.Sprint(v...)
	a.logger.Error(msg, tag([]any{"panic", true}, nil)...)
	a.escalate(msg)
}

// Write lets the adapter stand in for an io.Writer log target. Each chunk
// becomes one info record, minus a trailing newline.
func (a *FiberAdapter) Write(p []byte) (n int, err error) {
	msg := string(p)
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	a.logger.Info(msg, tag(nil, nil)...)
	return len(p), nil
}

// FormatLogger interface: printf-style calls.

func (a *FiberAdapter) Tracef(format string, v ...any) {
	a.logger.Debug(fmt.Sprintf(format, v...), tag([]any{"level", "trace"}, nil)...)
}

func (a *FiberAdapter) Debugf(format string, v ...any) {
	a.logger.Debug(fmt.Sprintf(format, v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Infof(format string, v ...any) {
	a.logger.Info(fmt.Sprintf(format, v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Warnf(format string, v ...any) {
	a.logger.Warn(fmt.Sprintf(format, v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Errorf(format string, v ...any) {
	a.logger.Error(fmt.Sprintf(format, v...), tag(nil, nil)...)
}

func (a *FiberAdapter) Fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.logger.Error(msg, tag([]any{"fatal", true}, nil)...)
	a.terminate(msg)
}

func (a *FiberAdapter) Panicf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.logger.Error(msg, tag([]any{"panic", true}, nil)...)
	a.escalate(msg)
}

// WithLogger interface: message plus key/value pairs.

func (a *FiberAdapter) Tracew(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, tag([]any{"level", "trace"}, keysAndValues)...)
}

func (a *FiberAdapter) Debugw(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, tag(nil, keysAndValues)...)
}

func (a *FiberAdapter) Infow(msg string, keysAndValues ...any) {
	a.logger.Info(msg, tag(nil, keysAndValues)...)
}

func (a *FiberAdapter) Warnw(msg string, keysAndValues ...any) {
	a.logger.Warn(msg, tag(nil, keysAndValues)...)
}

func (a *FiberAdapter) Errorw(msg string, keysAndValues ...any) {
	a.logger.Error(msg, tag(nil, keysAndValues)...)
}

func (a *FiberAdapter) Fatalw(msg string, keysAndValues ...any) {
	a.logger.Error(msg, tag([]any{"fatal", true}, keysAndValues)...)
	a.terminate(msg)
}

func (a *FiberAdapter) Panicw(msg string, keysAndValues ...any) {
	a.logger.Error(msg, tag([]any{"panic", true}, keysAndValues)...)
	a.escalate(msg)
}
