package daylog

import (
	"path/filepath"
	"strings"
	"time"
)

// resolveRoute computes the routing decision for one record against a
// configuration snapshot. File output requires the level threshold and the
// matching report flag. Console output is governed solely by enable_console
// and ignores the level threshold.
func resolveRoute(cfg *Config, ts time.Time, level int64) routeDecision {
	var d routeDecision

	d.console = cfg.EnableConsole

	levelEnabled := level >= cfg.Level
	if level == LevelError {
		d.file = levelEnabled && cfg.EnableErrorReports
	} else {
		d.file = levelEnabled && cfg.EnableFileReports
	}

	if d.file {
		d.path = logFilePath(cfg, ts, level)
	}

	return d
}

// logFileName builds the date-stamped filename for a level. Error records
// always get their own file; other levels share one file per day unless
// splitting is enabled.
func logFileName(ts time.Time, level int64, split bool) string {
	date := ts.Format(fileDateLayout)
	if split || level == LevelError {
		return date + "-" + levelLabel(level) + logFileExt
	}
	return date + "-" + combinedFileLabel + logFileExt
}

// logFilePath resolves the full path a record is appended to. The result is
// the handle cache key. Error records live under the error directory.
func logFilePath(cfg *Config, ts time.Time, level int64) string {
	dir := cfg.Directory
	if level == LevelError {
		dir = cfg.ErrorDirectory
	}
	return filepath.Join(dir, logFileName(ts, level, cfg.SplitByLevel))
}

// fileNameDate extracts the date stamp from a managed log filename.
// Returns false for names that do not follow the managed layout, which lets
// the day-boundary eviction skip unrelated files.
func fileNameDate(name string) (time.Time, bool) {
	if !strings.HasSuffix(name, logFileExt) {
		return time.Time{}, false
	}
	if len(name) < len(fileDateLayout)+1+len(logFileExt) {
		return time.Time{}, false
	}
	datePart := name[:len(fileDateLayout)]
	if name[len(fileDateLayout)] != '-' {
		return time.Time{}, false
	}
	ts, err := time.Parse(fileDateLayout, datePart)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
