package compat

import (
	"fmt"
	"strings"

	"github.com/ferrmin/daylog"
)

// levelKeywords maps message content to levels, checked in order. First
// matching group wins.
var levelKeywords = []struct {
	level int64
	words []string
}{
	{daylog.LevelError, []string{"error", "failed", "fatal", "panic"}},
	{daylog.LevelWarn, []string{"warn", "warning", "deprecated"}},
	{daylog.LevelDebug, []string{"debug", "trace"}},
}

// DetectLogLevel guesses a level from message content. Messages matching no
// keyword group come back as LevelInfo.
func DetectLogLevel(msg string) int64 {
	msgLower := strings.ToLower(msg)
	for _, group := range levelKeywords {
		for _, word := range group.words {
			if strings.Contains(msgLower, word) {
				return group.level
			}
		}
	}
	return daylog.LevelInfo
}

// FastHTTPAdapter satisfies fasthttp's single-method Logger interface.
// Printf gives no level, so the adapter infers one from message content and
// falls back to a configurable default.
type FastHTTPAdapter struct {
	logger        *daylog.Logger
	defaultLevel  int64
	levelDetector func(string) int64
}

// FastHTTPOption adjusts adapter construction
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection reports nothing.
// Pass one of the daylog level constants.
func WithDefaultLevel(level int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector replaces the content-based level detector. A nil
// detector disables detection; every record then uses the default level.
func WithLevelDetector(detector func(string) int64) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// NewFastHTTPAdapter builds an adapter over an already configured logger
func NewFastHTTPAdapter(logger *daylog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  daylog.LevelInfo,
		levelDetector: DetectLogLevel,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Printf implements fasthttp's Logger interface. A detector result of 0
// (LevelInfo) reads as "nothing detected" and keeps the default level, so
// an adapter configured with WithDefaultLevel honors it for plain messages.
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != 0 {
			level = detected
		}
	}

	a.logger.Write(level, msg, "source", "fasthttp")
}
