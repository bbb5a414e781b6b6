package daylog

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
)

// osExit is swapped out in tests
var osExit = os.Exit

var (
	signalMu        sync.Mutex
	signalLoggers   = make(map[*Logger]struct{})
	signalChan      chan os.Signal
	signalInstalled bool
)

// RegisterShutdownSignals enrolls the logger with the process-wide interrupt
// handler. On SIGINT or SIGTERM every registered logger is shut down, open
// handles are closed, and the process exits with a success status even when
// a close fails. The OS handler is installed once; repeated registration of
// the same logger is a no-op.
func (l *Logger) RegisterShutdownSignals() {
	signalMu.Lock()
	defer signalMu.Unlock()

	signalLoggers[l] = struct{}{}

	if !signalInstalled {
		signalInstalled = true
		signalChan = make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
		go awaitShutdownSignal(signalChan)
	}
}

// UnregisterShutdownSignals removes the logger from the interrupt handler.
// Safe to call for a logger that was never registered.
func (l *Logger) UnregisterShutdownSignals() {
	signalMu.Lock()
	defer signalMu.Unlock()
	delete(signalLoggers, l)
}

func awaitShutdownSignal(ch <-chan os.Signal) {
	<-ch
	shutdownRegisteredLoggers()
	osExit(0)
}

// shutdownRegisteredLoggers shuts down every registered logger. Close
// failures are reported, never fatal: the process still terminates cleanly.
func shutdownRegisteredLoggers() {
	signalMu.Lock()
	loggers := make([]*Logger, 0, len(signalLoggers))
	for l := range signalLoggers {
		loggers = append(loggers, l)
	}
	signalMu.Unlock()

	for _, l := range loggers {
		if err := l.Shutdown(); err != nil {
			l.getFailsafe().report("signal shutdown close failure", err)
		}
	}
}

// HandlePanic records an escaping panic and terminates with a failure
// status. Intended as a last-resort deferred call at the top of main:
//
//	defer logger.HandlePanic()
//
// The panic value and stack go to the failsafe sink with a console echo,
// then open handles are closed. This function recovers internally and never
// raises on its own.
func (l *Logger) HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	defer func() {
		// The handler itself must not take the process down with a second
		// panic
		if rr := recover(); rr != nil {
			fmt.Fprintf(os.Stderr, "daylog: panic handler failed: %v\n", rr)
			osExit(1)
		}
	}()

	l.getFailsafe().reportf("unhandled panic: %v\n%s", r, debug.Stack())
	fmt.Fprintf(os.Stderr, "daylog: unhandled panic: %v\n", r)

	if err := l.Shutdown(); err != nil {
		l.getFailsafe().report("panic shutdown close failure", err)
	}
	osExit(1)
}
