package daylog

import (
	"io"
	"time"
)

// logRecord is one enqueued log entry, timestamped at the call site
type logRecord struct {
	TimeStamp       time.Time
	Level           int64
	Message         string
	Fields          []any  // Alternating key/value pairs
	unreportedDrops uint64 // Nonzero only on in-band drop reports
}

// routeDecision is the resolved routing outcome for one record
type routeDecision struct {
	console bool
	file    bool
	path    string // Cache key, set only when file is true
}

// timerSet bundles the processor's tickers. A nil ticker leaves its channel
// nil, which disables the matching select case.
type timerSet struct {
	flushTicker     *time.Ticker
	sweepTicker     *time.Ticker
	heartbeatTicker *time.Ticker
	sweepChan       <-chan time.Time
	heartbeatChan   <-chan time.Time
}

// sink wraps an io.Writer so ConsoleWriter always stores one concrete type
type sink struct {
	w io.Writer
}

// FormatFunc renders one log record into the bytes appended to console and
// file targets. A nil formatter in the configuration selects the built-in
// serializer. The fields map carries the key/value context of the call.
type FormatFunc func(ts time.Time, level int64, message string, fields map[string]any) []byte
