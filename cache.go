package daylog

import (
	"os"
	"path/filepath"
	"time"
)

// handleCache maps resolved file paths to open append handles. It is owned by
// the processor goroutine: entries are created and removed only between
// records, never while a write is in flight. closeAll is additionally safe
// from the shutdown path once the processor has exited.
type handleCache struct {
	handles map[string]*os.File
}

func newHandleCache() *handleCache {
	return &handleCache{handles: make(map[string]*os.File)}
}

// acquire returns the open handle for path, creating it in append mode on
// first use. The created flag reports whether this call opened the file.
func (c *handleCache) acquire(path string) (*os.File, bool, error) {
	if file, ok := c.handles[path]; ok {
		return file, false, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, fmtErrorf("failed to open log file '%s': %w", path, err)
	}

	c.handles[path] = file
	return file, true, nil
}

// write appends data to the handle for path, creating the handle if needed.
// Returns whether a handle was created and the write error, if any.
func (c *handleCache) write(path string, data []byte) (bool, error) {
	file, created, err := c.acquire(path)
	if err != nil {
		return false, err
	}
	if _, err := file.Write(data); err != nil {
		return created, fmtErrorf("failed to write to log file '%s': %w", path, err)
	}
	return created, nil
}

// rotate closes and evicts the handle for path. A later write to the same
// path transparently recreates it. Unknown paths are a no-op.
func (c *handleCache) rotate(path string) error {
	file, ok := c.handles[path]
	if !ok {
		return nil
	}
	delete(c.handles, path)

	var err error
	if syncErr := file.Sync(); syncErr != nil {
		err = fmtErrorf("failed to sync log file '%s': %w", path, syncErr)
	}
	if closeErr := file.Close(); closeErr != nil {
		err = combineErrors(err, fmtErrorf("failed to close log file '%s': %w", path, closeErr))
	}
	return err
}

// evictStale closes every handle whose filename carries a date other than
// now's. Day rotation happens through the filename itself; this is the hygiene
// pass that releases handles the new day has obsoleted. Returns the evicted
// paths and any close errors.
func (c *handleCache) evictStale(now time.Time) ([]string, []error) {
	today := now.Format(fileDateLayout)

	var stale []string
	for path := range c.handles {
		day, ok := fileNameDate(filepath.Base(path))
		if !ok {
			continue
		}
		if day.Format(fileDateLayout) != today {
			stale = append(stale, path)
		}
	}

	var errs []error
	for _, path := range stale {
		if err := c.rotate(path); err != nil {
			errs = append(errs, err)
		}
	}
	return stale, errs
}

// syncAll flushes every open handle to disk
func (c *handleCache) syncAll() []error {
	var errs []error
	for path, file := range c.handles {
		if err := file.Sync(); err != nil {
			errs = append(errs, fmtErrorf("failed to sync log file '%s': %w", path, err))
		}
	}
	return errs
}

// closeAll syncs, closes, and evicts every entry. It is synchronous: when it
// returns, no handle remains open, which is what the shutdown path relies on.
func (c *handleCache) closeAll() []error {
	var errs []error
	for path, file := range c.handles {
		if err := file.Sync(); err != nil {
			errs = append(errs, fmtErrorf("failed to sync log file '%s' during close: %w", path, err))
		}
		if err := file.Close(); err != nil {
			errs = append(errs, fmtErrorf("failed to close log file '%s': %w", path, err))
		}
		delete(c.handles, path)
	}
	return errs
}

// size reports the number of live handles
func (c *handleCache) size() int {
	return len(c.handles)
}
