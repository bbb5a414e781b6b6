package daylog

import (
	"time"
)

// activeChannel returns the channel records are currently enqueued on
func (l *Logger) activeChannel() chan logRecord {
	return l.state.ActiveLogChannel.Load().(chan logRecord)
}

// enqueueRecord enqueues one record without blocking. A full buffer, a
// disabled logger, or a send racing Stop's channel swap all end in
// countFailedSend, so every record is either enqueued or counted.
func (l *Logger) enqueueRecord(record logRecord) {
	defer func() {
		// A send on the swapped-in closed channel panics; count it as a drop
		if r := recover(); r != nil {
			l.countFailedSend(record)
		}
	}()

	if l.state.ShutdownCalled.Load() || l.state.LoggerDisabled.Load() {
		l.countFailedSend(record)
		return
	}

	select {
	case l.activeChannel() <- record:
		// Drop reports themselves carry unreportedDrops and must not recurse
		if record.unreportedDrops == 0 {
			l.reportPendingDrops()
		}
	default:
		l.countFailedSend(record)
	}
}

// reportPendingDrops turns the accumulated drop count into one in-band
// error record. The count rides along in unreportedDrops: when this send
// fails too, countFailedSend puts it back instead of double-counting.
func (l *Logger) reportPendingDrops() {
	dropped := l.state.DroppedLogs.Swap(0)
	if dropped == 0 {
		return
	}

	l.enqueueRecord(logRecord{
		TimeStamp:       time.Now(),
		Level:           LevelError,
		Message:         "logs were dropped",
		Fields:          []any{"dropped_count", dropped},
		unreportedDrops: dropped,
	})
}

// countFailedSend accounts for a record that never reached the channel. A
// failed drop report restores its carried count without touching the
// lifetime total; an ordinary record adds one to both counters.
func (l *Logger) countFailedSend(record logRecord) {
	if record.unreportedDrops > 0 {
		l.state.DroppedLogs.Add(record.unreportedDrops)
		return
	}
	l.state.DroppedLogs.Add(1)
	l.state.TotalDroppedLogs.Add(1)
}

// log handles the core logging logic. Malformed calls go to the failsafe
// sink and skip the write path; records no target wants are filtered here
// before they cost a channel slot.
func (l *Logger) log(level int64, message string, fields ...any) {
	if !l.state.IsInitialized.Load() {
		return
	}

	if !levelValid(level) {
		l.getFailsafe().reportf("usage error: unrecognized level %d for message %q", level, message)
		return
	}
	if message == "" {
		l.getFailsafe().reportf("usage error: empty message logged at %s level", levelLabel(level))
		return
	}

	cfg := l.getConfig()
	ts := time.Now()

	// Filtered records are the expected silent path, not a failure
	decision := resolveRoute(cfg, ts, level)
	if !decision.console && !decision.file {
		return
	}

	record := logRecord{
		TimeStamp: ts,
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	l.enqueueRecord(record)
}
