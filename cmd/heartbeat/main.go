package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ferrmin/daylog"
)

// Cycles a single logger through heartbeat configurations so the
// periodic operational records can be inspected in the output files.
// A heartbeat carries the sequence number, uptime and the cumulative
// counters, and is emitted at the log level so it bypasses severity
// filtering.
func main() {
	phases := []struct {
		intervalS   int64
		description string
	}{
		{0, "heartbeats disabled"},
		{2, "heartbeat every 2s"},
		{1, "heartbeat every 1s"},
		{0, "heartbeats disabled again"},
	}

	logger := daylog.NewLogger()

	for _, phase := range phases {
		overrides := []string{
			"directory=./heartbeat_logs",
			"error_directory=./heartbeat_logs/error",
			"failsafe_path=./heartbeat_failsafe.log",
			"level=debug",
			"enable_file_reports=true",
			"format=txt",
			fmt.Sprintf("heartbeat_interval_s=%d", phase.intervalS),
		}

		if err := logger.ApplyConfigString(overrides...); err != nil {
			fmt.Fprintf(os.Stderr, "failed to apply config: %v\n", err)
			os.Exit(1)
		}
		if err := logger.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to start logger: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("--- %s ---\n", phase.description)
		logger.Info("phase started", "interval_s", phase.intervalS)

		for j := range 5 {
			logger.Debug("background activity", "iteration", j)
			time.Sleep(200 * time.Millisecond)
		}

		// Long enough for at least one beat when enabled.
		time.Sleep(3 * time.Second)
		logger.Info("phase finished", "interval_s", phase.intervalS)
	}

	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown failed: %v\n", err)
	}

	stats := logger.Stats()
	fmt.Printf("processed=%d heartbeat records are tagged message=heartbeat in ./heartbeat_logs\n", stats.Processed)
}
