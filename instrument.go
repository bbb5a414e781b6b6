package daylog

import (
	"fmt"
	"reflect"
	"runtime"
	"time"
)

// WrapOption adjusts decorator behavior
type WrapOption func(*wrapSettings)

type wrapSettings struct {
	name         string
	ignoreErrors bool
}

// WithName overrides the function name used in decorator log entries.
// Without it the runtime name of the wrapped function is used.
func WithName(name string) WrapOption {
	return func(s *wrapSettings) { s.name = name }
}

// WithIgnoreErrors suppresses failures of the wrapped function. Errors and
// panics are still logged as a single error entry, but the decorated call
// returns zero values and a nil error instead of propagating them.
func WithIgnoreErrors() WrapOption {
	return func(s *wrapSettings) { s.ignoreErrors = true }
}

// Wrap decorates fn with timing and outcome logging: a debug entry on
// start, an info entry with duration on success, and exactly one error
// entry on failure. A failure is re-raised to the caller (error returned,
// panic re-panicked) unless WithIgnoreErrors is set.
func Wrap[R any](l *Logger, fn func() (R, error), opts ...WrapOption) func() (R, error) {
	settings := newWrapSettings(fn, opts)

	return func() (result R, err error) {
		start := time.Now()
		l.Debug("function started", "function", settings.name)

		defer func() {
			if r := recover(); r != nil {
				l.Error("function panicked",
					"function", settings.name,
					"panic", fmt.Sprint(r),
					"duration_ms", elapsedMs(start))
				if settings.ignoreErrors {
					var zero R
					result, err = zero, nil
					return
				}
				panic(r)
			}
		}()

		result, err = fn()
		if err != nil {
			l.Error("function failed",
				"function", settings.name,
				"error", err,
				"duration_ms", elapsedMs(start))
			if settings.ignoreErrors {
				var zero R
				return zero, nil
			}
			return result, err
		}

		l.Info("function completed",
			"function", settings.name,
			"duration_ms", elapsedMs(start))
		return result, nil
	}
}

// WrapFunc is Wrap for functions that return only an error
func WrapFunc(l *Logger, fn func() error, opts ...WrapOption) func() error {
	// Name must come from fn, not from the adapter closure below. A caller's
	// WithName still wins because it is applied after.
	opts = append([]WrapOption{WithName(functionName(fn))}, opts...)

	inner := Wrap(l, func() (struct{}, error) {
		return struct{}{}, fn()
	}, opts...)

	return func() error {
		_, err := inner()
		return err
	}
}

func newWrapSettings(fn any, opts []WrapOption) wrapSettings {
	s := wrapSettings{name: functionName(fn)}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// functionName resolves the runtime name of fn for log entries
func functionName(fn any) string {
	if fn == nil {
		return "anonymous"
	}
	if rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()); rf != nil {
		return rf.Name()
	}
	return "anonymous"
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1e3
}
