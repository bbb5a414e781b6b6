package daylog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Logger routes records to the console and to per-day, per-category log
// files. Construct instances with NewLogger; the zero value has no failsafe
// sink and panics on use.
type Logger struct {
	currentConfig   atomic.Value // stores *Config
	currentFailsafe atomic.Value // stores *failsafeSink
	state           State
	initMu          sync.Mutex

	// Owned by the processor goroutine; touched elsewhere only after
	// ProcessorExited is observed true
	serializer *serializer
	cache      *handleCache
}

// NewLogger returns a logger carrying the default configuration. It accepts
// no records until ApplyConfig and Start have both run.
func NewLogger() *Logger {
	l := &Logger{
		serializer: newSerializer(),
		cache:      newHandleCache(),
	}

	cfg := DefaultConfig()
	l.currentConfig.Store(cfg)
	l.currentFailsafe.Store(newFailsafeSink(cfg.FailsafePath))

	// Remaining state fields start at their zero values
	l.state.ProcessorExited.Store(true)
	l.state.LoggerStartTime.Store(time.Now())
	l.state.ActiveLogChannel.Store(closedRecordChannel())
	l.state.ConsoleWriter.Store(&sink{w: io.Discard})
	l.state.flushRequestChan = make(chan chan struct{}, 1)

	return l
}

// closedRecordChannel builds the resting value of ActiveLogChannel: a
// pre-closed channel that makes every send panic into the drop path while no
// processor is accepting records.
func closedRecordChannel() chan logRecord {
	ch := make(chan logRecord)
	close(ch)
	return ch
}

// ApplyConfig validates cfg and installs a copy of it. Most settings take
// effect immediately; changes to the keys listed by configRequiresRestart
// bounce the processor goroutine.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// ApplyConfigString overlays "key=value" pairs onto the current
// configuration and applies the result. Bad pairs are collected and reported
// together; none of them is applied.
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return l.ApplyConfig(cfg)
}

// GetConfig returns a copy of the active configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// Start launches the processor goroutine with a fresh buffered channel.
// Calling it on a running logger is a no-op.
func (l *Logger) Start() error {
	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger has been shut down")
	}
	if !l.state.IsInitialized.Load() {
		return fmtErrorf("logger not initialized, call ApplyConfig first")
	}

	if l.state.Started.CompareAndSwap(false, true) {
		cfg := l.getConfig()

		logChannel := make(chan logRecord, cfg.BufferSize)
		l.state.ActiveLogChannel.Store(logChannel)

		l.state.ProcessorExited.Store(false)
		go l.processLogs(logChannel)
	}

	return nil
}

// Stop halts log processing; Start can resume it later. Open file handles
// stay cached so a restart continues appending to the same files. Returns
// nil when already stopped.
func (l *Logger) Stop(timeout ...time.Duration) error {
	if !l.state.Started.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	if ch := l.activeChannel(); ch != nil {
		// New writers must land on a closed channel at once; closing the
		// real channel afterwards tells the processor to drain and exit
		l.state.ActiveLogChannel.Store(closedRecordChannel())
		close(ch)
	}

	wait := l.stopTimeout(timeout)
	if !l.awaitProcessorExit(wait) {
		return fmtErrorf("processor did not exit within timeout (%v)", wait)
	}

	return nil
}

// stopTimeout resolves the optional timeout argument of Stop and Shutdown,
// defaulting to twice the flush interval
func (l *Logger) stopTimeout(timeout []time.Duration) time.Duration {
	if len(timeout) > 0 {
		return timeout[0]
	}
	return 2 * time.Duration(l.getConfig().FlushIntervalMs) * time.Millisecond
}

// awaitProcessorExit polls until the processor goroutine reports exit or the
// wait elapses
func (l *Logger) awaitProcessorExit(wait time.Duration) bool {
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			return true
		}
		time.Sleep(minWaitTime)
	}
	return l.state.ProcessorExited.Load()
}

// Shutdown drains pending records and closes every cached file handle. The
// transition is irreversible: afterwards the logger cannot be reconfigured
// or restarted, and the level methods become silent no-ops. Without an
// explicit timeout it waits twice the flush interval.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.state.LoggerDisabled.Store(true)
	l.UnregisterShutdownSignals()

	if !l.state.IsInitialized.Load() {
		l.state.ProcessorExited.Store(true)
		l.state.Terminated.Store(true)
		return nil
	}

	var stopErr error
	if l.state.Started.Load() {
		stopErr = l.Stop(timeout...)
	}

	l.state.IsInitialized.Store(false)

	// Close failures are reported but never block termination
	var finalErr error
	for _, err := range l.cache.closeAll() {
		l.getFailsafe().report("shutdown close failure", err)
		finalErr = combineErrors(finalErr, err)
	}

	if stopErr != nil {
		finalErr = combineErrors(finalErr, stopErr)
	}

	l.state.Terminated.Store(true)
	return finalErr
}

// Flush hands a confirmation channel to the processor and waits until it has
// synced every open file handle, or the timeout expires.
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if !l.state.IsInitialized.Load() || l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger not initialized or already shut down")
	}
	if !l.state.Started.Load() {
		return fmtErrorf("logger not started")
	}

	confirmChan := make(chan struct{})

	select {
	case l.state.flushRequestChan <- confirmChan:
	case <-time.After(minWaitTime):
		// The request slot stayed full, so the processor is stuck or saturated
		return fmtErrorf("failed to send flush request to processor (possible deadlock or high load)")
	}

	select {
	case <-confirmChan:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Debug submits a record at debug level
func (l *Logger) Debug(message string, fields ...any) {
	l.log(LevelDebug, message, fields...)
}

// Log submits a record at log level, the level of operational chatter that
// sits between debug and info
func (l *Logger) Log(message string, fields ...any) {
	l.log(LevelLog, message, fields...)
}

// Info submits a record at info level
func (l *Logger) Info(message string, fields ...any) {
	l.log(LevelInfo, message, fields...)
}

// Warn submits a record at warning level
func (l *Logger) Warn(message string, fields ...any) {
	l.log(LevelWarn, message, fields...)
}

// Error submits a record at error level
func (l *Logger) Error(message string, fields ...any) {
	l.log(LevelError, message, fields...)
}

// Write submits a record at an arbitrary level. Levels outside the known
// constants are a usage error reported to the failsafe sink.
func (l *Logger) Write(level int64, message string, fields ...any) {
	l.log(level, message, fields...)
}

func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

func (l *Logger) getFailsafe() *failsafeSink {
	return l.currentFailsafe.Load().(*failsafeSink)
}

func (l *Logger) getConsoleWriter() *sink {
	return l.state.ConsoleWriter.Load().(*sink)
}

// applyConfig installs cfg; the caller holds initMu. On failure the previous
// configuration stays in force.
func (l *Logger) applyConfig(cfg *Config) error {
	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger has been shut down")
	}

	oldCfg := l.getConfig()
	l.currentConfig.Store(cfg)

	if err := ensureReportDirectories(cfg); err != nil {
		l.currentConfig.Store(oldCfg) // Rollback
		return err
	}

	if oldCfg.FailsafePath != cfg.FailsafePath {
		l.currentFailsafe.Store(newFailsafeSink(cfg.FailsafePath))
	}

	needsRestart := l.state.Started.Load() && l.state.IsInitialized.Load() &&
		configRequiresRestart(oldCfg, cfg)
	if needsRestart {
		if err := l.Stop(); err != nil {
			l.currentConfig.Store(oldCfg) // Rollback
			return fmtErrorf("failed to stop processor for restart: %w", err)
		}
		// Processor has exited, handles for the old layout can be released
		for _, err := range l.cache.closeAll() {
			l.getFailsafe().report("reconfigure close failure", err)
		}
	}

	l.state.ConsoleWriter.Store(consoleSink(cfg))
	l.state.IsInitialized.Store(true)

	if needsRestart {
		return l.Start()
	}

	return nil
}

// ensureReportDirectories creates the managed directories for whichever
// report targets cfg enables
func ensureReportDirectories(cfg *Config) error {
	if cfg.EnableFileReports {
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
		}
	}
	if cfg.EnableErrorReports {
		if err := os.MkdirAll(cfg.ErrorDirectory, 0755); err != nil {
			return fmtErrorf("failed to create error log directory '%s': %w", cfg.ErrorDirectory, err)
		}
	}
	return nil
}

// consoleSink selects the console destination cfg asks for
func consoleSink(cfg *Config) *sink {
	if !cfg.EnableConsole {
		return &sink{w: io.Discard}
	}
	if cfg.ConsoleTarget == "stderr" {
		return &sink{w: os.Stderr}
	}
	return &sink{w: os.Stdout}
}
