package daylog

import "time"

// The package-level functions below operate on one shared logger instance.
var defaultLogger = NewLogger()

// Init applies cfg to the package logger and starts it
func Init(cfg *Config) error {
	if err := defaultLogger.ApplyConfig(cfg); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// InitWithDefaults starts the package logger with optional "key=value"
// overrides layered on its current configuration, which is the built-in
// defaults on first use
func InitWithDefaults(overrides ...string) error {
	if err := defaultLogger.ApplyConfigString(overrides...); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// LoadConfig resolves a TOML file plus environment and CLI overrides into the
// package logger, then starts it
func LoadConfig(path string, args []string) error {
	if err := defaultLogger.LoadConfig(path, args); err != nil {
		return err
	}
	return defaultLogger.Start()
}

// Shutdown drains and terminates the package logger. Terminal: the package
// functions become no-ops afterwards.
func Shutdown(timeout ...time.Duration) error {
	return defaultLogger.Shutdown(timeout...)
}

// Flush syncs the package logger's open handles, waiting up to timeout
func Flush(timeout time.Duration) error {
	return defaultLogger.Flush(timeout)
}

// Debug submits a debug record to the package logger
func Debug(message string, fields ...any) {
	defaultLogger.Debug(message, fields...)
}

// Log submits a log-level record to the package logger
func Log(message string, fields ...any) {
	defaultLogger.Log(message, fields...)
}

// Info submits an info record to the package logger
func Info(message string, fields ...any) {
	defaultLogger.Info(message, fields...)
}

// Warn submits a warning record to the package logger
func Warn(message string, fields ...any) {
	defaultLogger.Warn(message, fields...)
}

// Error submits an error record to the package logger
func Error(message string, fields ...any) {
	defaultLogger.Error(message, fields...)
}

// GetStats returns a snapshot of the package logger's counters
func GetStats() Stats {
	return defaultLogger.Stats()
}

// Default exposes the package logger for APIs that take a *Logger, such as
// Wrap or the compat adapters
func Default() *Logger {
	return defaultLogger
}
