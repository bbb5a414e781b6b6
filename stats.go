package daylog

import "time"

// Stats is a point-in-time snapshot of the logger's runtime counters
type Stats struct {
	Processed       uint64        // Records rendered for console or file output
	Dropped         uint64        // Records lost to a full buffer or failed write
	HandleOpens     uint64        // File handles created by the cache
	Rotations       uint64        // Handles released at day boundaries
	Deletions       uint64        // Files removed by retention sweeps
	FailsafeReports uint64        // Internal faults reported to the failsafe sink
	Uptime          time.Duration // Time since the logger instance was created
}

// Stats returns a snapshot of the logger's counters. Safe to call from any
// goroutine at any lifecycle stage.
func (l *Logger) Stats() Stats {
	var uptime time.Duration
	if st, ok := l.state.LoggerStartTime.Load().(time.Time); ok {
		uptime = time.Since(st)
	}

	return Stats{
		Processed:       l.state.TotalLogsProcessed.Load(),
		Dropped:         l.state.TotalDroppedLogs.Load(),
		HandleOpens:     l.state.TotalHandleOpens.Load(),
		Rotations:       l.state.TotalRotations.Load(),
		Deletions:       l.state.TotalDeletions.Load(),
		FailsafeReports: l.getFailsafe().reports.Load(),
		Uptime:          uptime,
	}
}
