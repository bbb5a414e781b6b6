package daylog

import (
	"os"
	"path/filepath"
	"time"
)

// Sweep runs one retention pass immediately, deleting files in the managed
// directories whose age exceeds the configured threshold. With retention
// disabled it is a no-op. Individual file failures are reported to the
// failsafe sink and do not stop the pass; the returned error covers only
// unreadable directories.
func (l *Logger) Sweep() error {
	return l.sweepOnce()
}

// sweepOnce performs a single retention sweep over both managed directories.
// The CompareAndSwap guard keeps a slow pass from overlapping the next
// scheduled one.
func (l *Logger) sweepOnce() error {
	c := l.getConfig()
	if c.RetentionDays <= 0 {
		return nil
	}

	if !l.state.SweepRunning.CompareAndSwap(false, true) {
		// A sweep is already in flight
		return nil
	}
	defer l.state.SweepRunning.Store(false)

	cutoff := time.Now().Add(-time.Duration(c.RetentionDays) * 24 * time.Hour)

	sweepErr := l.sweepDirectory(c.Directory, cutoff)
	if c.ErrorDirectory != c.Directory {
		sweepErr = combineErrors(sweepErr, l.sweepDirectory(c.ErrorDirectory, cutoff))
	}
	return sweepErr
}

// sweepDirectory deletes every regular file in dir last modified before
// cutoff. A file whose age equals the threshold exactly is retained; only
// strictly older files go.
func (l *Logger) sweepDirectory(dir string, cutoff time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing to sweep until the directory is created
			return nil
		}
		err = fmtErrorf("failed to read log directory '%s' for retention sweep: %w", dir, err)
		l.getFailsafe().report("sweep failure", err)
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			// One unreadable file must not stop the sweep
			l.getFailsafe().report("sweep stat failure", errInfo)
			continue
		}
		if info.ModTime().Before(cutoff) {
			filePath := filepath.Join(dir, entry.Name())
			if err := os.Remove(filePath); err != nil {
				l.getFailsafe().reportf("sweep delete failure for '%s': %v", filePath, err)
				continue
			}
			l.state.TotalDeletions.Add(1)
		}
	}

	return nil
}
