package daylog

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

const hexChars = "0123456789abcdef"

// serializer renders records into a reused byte buffer. It belongs to the
// processor goroutine; the returned slice is only valid until the next call.
type serializer struct {
	buf             []byte
	timestampFormat string
}

func newSerializer() *serializer {
	return &serializer{
		buf:             make([]byte, 0, 4096),
		timestampFormat: time.RFC3339, // Until configured
	}
}

// reset rewinds the buffer for the next record
func (s *serializer) reset() {
	s.buf = s.buf[:0]
}

// setTimestampFormat updates the cached timestamp layout
func (s *serializer) setTimestampFormat(format string) {
	if format == "" {
		format = time.RFC3339
	}
	s.timestampFormat = format
}

// serialize renders one record in the configured format, json or (default) txt.
func (s *serializer) serialize(format string, timestamp time.Time, level int64, message string, fields []any) []byte {
	s.reset()

	if format == "json" {
		return s.serializeJSON(timestamp, level, message, fields)
	}
	return s.serializeTxt(timestamp, level, message, fields)
}

// serializeTxt renders "timestamp LEVEL message key=value ...".
func (s *serializer) serializeTxt(timestamp time.Time, level int64, message string, fields []any) []byte {
	s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
	s.buf = append(s.buf, ' ')
	s.buf = append(s.buf, levelToString(level)...)
	s.buf = append(s.buf, ' ')
	s.buf = append(s.buf, message...)

	for i := 0; i < len(fields); i += 2 {
		s.buf = append(s.buf, ' ')
		s.writeFieldKey(fields[i])
		s.buf = append(s.buf, '=')
		if i+1 < len(fields) {
			s.writeTxtValue(fields[i+1])
		} else {
			s.buf = append(s.buf, "null"...)
		}
	}

	s.buf = append(s.buf, '\n')
	return s.buf
}

// serializeJSON renders {"time":...,"level":...,"message":...,"fields":{...}}.
func (s *serializer) serializeJSON(timestamp time.Time, level int64, message string, fields []any) []byte {
	s.buf = append(s.buf, `{"time":"`...)
	s.buf = timestamp.AppendFormat(s.buf, s.timestampFormat)
	s.buf = append(s.buf, `","level":"`...)
	s.buf = append(s.buf, levelToString(level)...)
	s.buf = append(s.buf, `","message":"`...)
	s.writeString(message)
	s.buf = append(s.buf, '"')

	if len(fields) > 0 {
		s.buf = append(s.buf, `,"fields":{`...)
		for i := 0; i < len(fields); i += 2 {
			if i > 0 {
				s.buf = append(s.buf, ',')
			}
			s.buf = append(s.buf, '"')
			s.writeFieldKeyEscaped(fields[i])
			s.buf = append(s.buf, `":`...)
			if i+1 < len(fields) {
				s.writeJSONValue(fields[i+1])
			} else {
				s.buf = append(s.buf, "null"...)
			}
		}
		s.buf = append(s.buf, '}')
	}

	s.buf = append(s.buf, '}', '\n')
	return s.buf
}

// writeFieldKey appends a field key for txt output
func (s *serializer) writeFieldKey(k any) {
	if str, ok := k.(string); ok {
		s.buf = append(s.buf, str...)
		return
	}
	s.buf = append(s.buf, fmt.Sprintf("%v", k)...)
}

// writeFieldKeyEscaped appends a field key for JSON output
func (s *serializer) writeFieldKeyEscaped(k any) {
	if str, ok := k.(string); ok {
		s.writeString(str)
		return
	}
	s.writeString(fmt.Sprintf("%v", k))
}

// appendScalar renders the number, bool and nil values both formats share
// unquoted. Returns false for values the caller renders per format.
func (s *serializer) appendScalar(v any) bool {
	switch val := v.(type) {
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, val, 10)
	case uint:
		s.buf = strconv.AppendUint(s.buf, uint64(val), 10)
	case uint64:
		s.buf = strconv.AppendUint(s.buf, val, 10)
	case float32:
		s.buf = strconv.AppendFloat(s.buf, float64(val), 'f', -1, 32)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, val, 'f', -1, 64)
	case bool:
		s.buf = strconv.AppendBool(s.buf, val)
	case nil:
		s.buf = append(s.buf, "null"...)
	default:
		return false
	}
	return true
}

// appendQuoted appends str wrapped in double quotes with escaping
func (s *serializer) appendQuoted(str string) {
	s.buf = append(s.buf, '"')
	s.writeString(str)
	s.buf = append(s.buf, '"')
}

// appendBareOrQuoted quotes txt values that are empty or contain spaces so
// the k=v stream stays splittable; everything else is appended bare
func (s *serializer) appendBareOrQuoted(str string) {
	if len(str) == 0 || strings.ContainsRune(str, ' ') {
		s.appendQuoted(str)
		return
	}
	s.buf = append(s.buf, str...)
}

// writeTxtValue converts any value to its txt representation
func (s *serializer) writeTxtValue(v any) {
	if s.appendScalar(v) {
		return
	}
	switch val := v.(type) {
	case string:
		s.appendBareOrQuoted(val)
	case time.Time:
		s.buf = val.AppendFormat(s.buf, s.timestampFormat)
	case time.Duration:
		s.buf = append(s.buf, val.String()...)
	case error:
		s.appendBareOrQuoted(val.Error())
	case fmt.Stringer:
		s.appendBareOrQuoted(val.String())
	default:
		s.writeDumpedValue(val)
	}
}

// writeJSONValue converts any value to its JSON representation
func (s *serializer) writeJSONValue(v any) {
	if s.appendScalar(v) {
		return
	}
	switch val := v.(type) {
	case string:
		s.appendQuoted(val)
	case time.Time:
		s.buf = append(s.buf, '"')
		s.buf = val.AppendFormat(s.buf, s.timestampFormat)
		s.buf = append(s.buf, '"')
	case time.Duration:
		s.appendQuoted(val.String())
	case error:
		s.appendQuoted(val.Error())
	case fmt.Stringer:
		s.appendQuoted(val.String())
	default:
		s.appendQuoted(dumpValue(val))
	}
}

// dumpState renders arbitrary values for log output: compact, pointer-free,
// with deterministic map ordering.
var dumpState = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dumpValue renders an arbitrary value through spew, trimmed for embedding
func dumpValue(v any) string {
	var b bytes.Buffer
	dumpState.Fdump(&b, v)
	return string(bytes.TrimSpace(b.Bytes()))
}

// writeDumpedValue appends the spew rendering of an arbitrary txt value,
// quoted when it contains spaces or newlines
func (s *serializer) writeDumpedValue(v any) {
	str := dumpValue(v)
	if len(str) == 0 || strings.ContainsAny(str, " \n") {
		s.appendQuoted(str)
		return
	}
	s.buf = append(s.buf, str...)
}

// writeString appends str with JSON special characters escaped. Runs of
// plain characters are copied in one append.
func (s *serializer) writeString(str string) {
	for i := 0; i < len(str); {
		c := str[i]
		if c >= ' ' && c != '"' && c != '\\' {
			start := i
			for i < len(str) {
				if c = str[i]; c < ' ' || c == '"' || c == '\\' {
					break
				}
				i++
			}
			s.buf = append(s.buf, str[start:i]...)
			continue
		}

		switch c {
		case '\\', '"':
			s.buf = append(s.buf, '\\', c)
		case '\n':
			s.buf = append(s.buf, '\\', 'n')
		case '\r':
			s.buf = append(s.buf, '\\', 'r')
		case '\t':
			s.buf = append(s.buf, '\\', 't')
		case '\b':
			s.buf = append(s.buf, '\\', 'b')
		case '\f':
			s.buf = append(s.buf, '\\', 'f')
		default:
			s.buf = append(s.buf, `\u00`...)
			s.buf = append(s.buf, hexChars[c>>4], hexChars[c&0xF])
		}
		i++
	}
}

// fieldsToMap folds alternating key/value pairs into the map handed to a
// custom formatter. Non-string keys are stringified; a trailing key without a
// value maps to nil rather than being dropped.
func fieldsToMap(fields []any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	m := make(map[string]any, (len(fields)+1)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		if i+1 < len(fields) {
			m[key] = fields[i+1]
		} else {
			m[key] = nil
		}
	}
	return m
}
