package daylog

import (
	"time"
)

// Levels are ordered int64 values with gaps for future insertion. Routing
// compares them numerically, never by name.
const (
	LevelDebug int64 = -8
	LevelLog   int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
)

// Naming
const (
	// Extension of every managed log file
	logFileExt = ".log"
	// Date layout embedded in managed log filenames
	fileDateLayout = "2006-01-02"
	// Suffix of the shared non-error file when split_by_level is off
	combinedFileLabel = "all"
	// Name of the fallback sink file placed under the OS temp directory
	defaultFailsafeName = "daylog-failsafe.log"
)

// Timers
const (
	// Poll granularity for waits that cannot block on a channel
	minWaitTime = 10 * time.Millisecond
	// Default sweep cadence, one check per day
	defaultSweepCheckMins float64 = 1440
)
