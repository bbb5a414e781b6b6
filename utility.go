package daylog

import (
	"fmt"
	"strings"
)

// fmtErrorf prefixes errors with the module name, once
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors joins two optional errors, keeping err2 unwrappable
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits an override into trimmed key and value parts
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level parses a level name into its numeric constant. Names are matched
// case-insensitively after trimming.
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "log":
		return LevelLog, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, log, info, warn, or error)", levelStr)
	}
}

// LevelName returns the display name of a numeric level, for use in
// custom formatters.
func LevelName(level int64) string {
	return levelToString(level)
}

// levelValid reports whether level is one of the five recognized constants
func levelValid(level int64) bool {
	switch level {
	case LevelDebug, LevelLog, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// levelToString returns the display name of a level
func levelToString(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelLog:
		return "LOG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// levelLabel returns the lowercase label a level carries in managed filenames
func levelLabel(level int64) string {
	switch level {
	case LevelDebug:
		return "debug"
	case LevelLog:
		return "log"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}
