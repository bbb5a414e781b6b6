package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ferrmin/daylog"
)

// keyValuePattern matches "key=%v" / "key: %s" style fragments inside a
// printf format string
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat recovers key/value fields from a printf format string so a
// format-only caller still produces structured records. Text before the
// first match becomes the message; each matched key is paired with its
// argument. Formats with no matches, or with more matches than arguments,
// render as a plain message.
func parseFormat(format string, args []any) (string, []any) {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return fmt.Sprintf(format, args...), nil
	}

	var message string
	fields := make([]any, 0, len(matches)*2)
	lastEnd := 0
	argIndex := 0

	for _, match := range matches {
		if match[0] > lastEnd && message == "" {
			if prefix := strings.TrimSpace(format[lastEnd:match[0]]); prefix != "" {
				message = prefix
			}
		}

		key := format[match[2]:match[3]]
		if argIndex < len(args) {
			fields = append(fields, key, args[argIndex])
			argIndex++
		}

		lastEnd = match[1]
	}

	// Whatever trails the last match is rendered with the leftover args and
	// appended to the message
	if lastEnd < len(format) {
		if rest := args[argIndex:]; len(rest) > 0 {
			remaining := strings.TrimSpace(fmt.Sprintf(format[lastEnd:], rest...))
			switch {
			case remaining == "":
			case message == "":
				message = remaining
			default:
				message = message + " " + remaining
			}
		}
	}

	if message == "" {
		message = "gnet event"
	}
	return message, fields
}

// StructuredGnetAdapter is a GnetAdapter that lifts printf key/value
// fragments into record fields instead of flattening them into the message
type StructuredGnetAdapter struct {
	*GnetAdapter
	extractFields bool
}

// NewStructuredGnetAdapter builds a field-extracting gnet adapter
func NewStructuredGnetAdapter(logger *daylog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	return &StructuredGnetAdapter{
		GnetAdapter:   NewGnetAdapter(logger, opts...),
		extractFields: true,
	}
}

// structured parses the format and writes one record at the given level,
// falling back to the embedded adapter when extraction is off
func (a *StructuredGnetAdapter) structured(level int64, format string, args []any) {
	if !a.extractFields {
		a.emit(level, format, args)
		return
	}
	msg, fields := parseFormat(format, args)
	a.logger.Write(level, msg, append(fields, "source", "gnet")...)
}

func (a *StructuredGnetAdapter) Debugf(format string, args ...any) {
	a.structured(daylog.LevelDebug, format, args)
}

func (a *StructuredGnetAdapter) Infof(format string, args ...any) {
	a.structured(daylog.LevelInfo, format, args)
}

func (a *StructuredGnetAdapter) Warnf(format string, args ...any) {
	a.structured(daylog.LevelWarn, format, args)
}

func (a *StructuredGnetAdapter) Errorf(format string, args ...any) {
	a.structured(daylog.LevelError, format, args)
}
