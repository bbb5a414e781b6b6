package daylog

import (
	"fmt"
	"time"
)

// processLogs drains the record channel in its own goroutine. It is the
// only code that touches the handle cache while running; every cache
// mutation happens between records.
func (l *Logger) processLogs(ch <-chan logRecord) {
	l.state.ProcessorExited.Store(false)
	// Stop polls this flag to detect the drain finishing
	defer l.state.ProcessorExited.Store(true)

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	// First beat at startup rather than one interval in
	if l.getConfig().HeartbeatIntervalS > 0 {
		l.emitHeartbeat()
	}

	for {
		select {
		case record, ok := <-ch:
			if !ok {
				// Channel closed: perform final sync and exit.
				// Handles stay open for Stop/Start cycles; Shutdown closes
				// them once this goroutine is gone.
				l.syncHandles()
				return
			}
			l.processLogRecord(record)

		case now := <-timers.flushTicker.C:
			l.handleFlushTick(now)

		case confirmChan := <-l.state.flushRequestChan:
			l.handleFlushRequest(confirmChan)

		case <-timers.sweepChan:
			l.sweepOnce()

		case <-timers.heartbeatChan:
			l.emitHeartbeat()
		}
	}
}

// setupProcessingTimers builds the flush, sweep, and heartbeat timers from
// the current config. The flush ticker always runs; the other two may be nil.
func (l *Logger) setupProcessingTimers() *timerSet {
	timers := &timerSet{}

	c := l.getConfig()

	flushInterval := c.FlushIntervalMs
	if flushInterval <= 0 {
		flushInterval = DefaultConfig().FlushIntervalMs
	}
	timers.flushTicker = time.NewTicker(time.Duration(flushInterval) * time.Millisecond)

	timers.sweepChan = l.setupSweepTimer(timers)
	timers.heartbeatChan = l.setupHeartbeatTimer(timers)

	return timers
}

// closeProcessingTimers stops whichever timers were started
func (l *Logger) closeProcessingTimers(timers *timerSet) {
	timers.flushTicker.Stop()
	if timers.sweepTicker != nil {
		timers.sweepTicker.Stop()
	}
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

// setupSweepTimer configures the retention sweep timer. Without a retention
// threshold the sweeper is never scheduled: the returned nil channel disables
// its case in the select loop entirely.
func (l *Logger) setupSweepTimer(timers *timerSet) <-chan time.Time {
	c := l.getConfig()
	sweepCheckInterval := time.Duration(c.SweepCheckMins * float64(time.Minute))

	if c.RetentionDays > 0 && sweepCheckInterval > 0 {
		timers.sweepTicker = time.NewTicker(sweepCheckInterval)
		return timers.sweepTicker.C
	}
	return nil
}

// setupHeartbeatTimer starts the heartbeat ticker, or returns nil when
// heartbeats are off
func (l *Logger) setupHeartbeatTimer(timers *timerSet) <-chan time.Time {
	c := l.getConfig()
	if c.HeartbeatIntervalS > 0 {
		timers.heartbeatTicker = time.NewTicker(time.Duration(c.HeartbeatIntervalS) * time.Second)
		return timers.heartbeatTicker.C
	}
	return nil
}

// processLogRecord routes and writes one record
func (l *Logger) processLogRecord(record logRecord) {
	cfg := l.getConfig()

	decision := resolveRoute(cfg, record.TimeStamp, record.Level)
	if !decision.console && !decision.file {
		return
	}

	data := l.renderRecord(cfg, record)
	l.state.TotalLogsProcessed.Add(1)

	if decision.console {
		// Console output is best effort
		_, _ = l.getConsoleWriter().w.Write(data)
	}

	if decision.file {
		created, err := l.cache.write(decision.path, data)
		if created {
			l.state.TotalHandleOpens.Add(1)
		}
		if err != nil {
			l.getFailsafe().report("file write failure", err)
			l.state.DroppedLogs.Add(1)
			l.state.TotalDroppedLogs.Add(1)
		}
	}
}

// renderRecord serializes a record with the configured formatter. A panicking
// custom formatter is reported to the failsafe sink and the built-in
// serializer takes over for that record, so one bad formatter cannot kill
// the processor.
func (l *Logger) renderRecord(cfg *Config, record logRecord) (data []byte) {
	if cfg.Formatter != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					l.getFailsafe().reportf("formatter panicked: %v", r)
					data = nil
				}
			}()
			data = cfg.Formatter(record.TimeStamp, record.Level, record.Message, fieldsToMap(record.Fields))
		}()
		if data != nil {
			return data
		}
	}

	l.serializer.setTimestampFormat(cfg.TimestampFormat)
	return l.serializer.serialize(cfg.Format, record.TimeStamp, record.Level, record.Message, record.Fields)
}

// handleFlushTick syncs open handles and releases the ones a new day has
// made stale
func (l *Logger) handleFlushTick(now time.Time) {
	l.syncHandles()

	stale, errs := l.cache.evictStale(now)
	if len(stale) > 0 {
		l.state.TotalRotations.Add(uint64(len(stale)))
	}
	for _, err := range errs {
		l.getFailsafe().report("day rotation close failure", err)
	}
}

// handleFlushRequest serves one explicit Flush call
func (l *Logger) handleFlushRequest(confirmChan chan struct{}) {
	l.syncHandles()
	close(confirmChan) // Unblocks the waiting Flush caller
}

// syncHandles flushes every open handle, reporting failures without
// interrupting processing
func (l *Logger) syncHandles() {
	for _, err := range l.cache.syncAll() {
		l.getFailsafe().report("sync failure", err)
	}
}

// emitHeartbeat writes an in-band stats record at log level
func (l *Logger) emitHeartbeat() {
	sequence := l.state.HeartbeatSequence.Add(1)
	stats := l.Stats()

	record := logRecord{
		TimeStamp: time.Now(),
		Level:     LevelLog,
		Message:   "heartbeat",
		Fields: []any{
			"sequence", sequence,
			"uptime_hours", fmt.Sprintf("%.2f", stats.Uptime.Hours()),
			"processed_logs", stats.Processed,
			"dropped_logs", stats.Dropped,
			"handle_opens", stats.HandleOpens,
			"rotated_handles", stats.Rotations,
			"deleted_files", stats.Deletions,
			"failsafe_reports", stats.FailsafeReports,
		},
	}

	// Written directly; the processor does not enqueue to its own channel
	l.processLogRecord(record)
}
