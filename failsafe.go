package daylog

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// failsafeSink is the last-resort report target for failures inside the
// logging machinery itself. It keeps no open handle: every report opens,
// appends one line, and closes, so it stays usable after closeAll.
type failsafeSink struct {
	path    string
	reports atomic.Uint64
}

func newFailsafeSink(path string) *failsafeSink {
	return &failsafeSink{path: path}
}

// report writes one line describing an internal failure. It never returns an
// error and never panics; when even the sink write fails, the failure is
// echoed to stderr and swallowed.
func (f *failsafeSink) report(context string, err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "daylog: failsafe report panicked: %v\n", r)
		}
	}()

	line := time.Now().Format(time.RFC3339) + " daylog " + context
	if err != nil {
		line += ": " + err.Error()
	}
	line += "\n"

	file, openErr := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if openErr != nil {
		fmt.Fprintf(os.Stderr, "daylog: failsafe sink unavailable (%v) while reporting %s\n", openErr, context)
		return
	}
	defer file.Close()

	if _, writeErr := file.WriteString(line); writeErr != nil {
		fmt.Fprintf(os.Stderr, "daylog: failsafe write failed (%v) while reporting %s\n", writeErr, context)
		return
	}

	f.reports.Add(1)
}

// reportf is a printf-shaped convenience over report
func (f *failsafeSink) reportf(format string, args ...any) {
	f.report(fmt.Sprintf(format, args...), nil)
}
