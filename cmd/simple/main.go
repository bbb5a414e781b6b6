package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ferrmin/daylog"
)

// Demonstrates file-based configuration with environment and CLI
// overrides layered on top. Run with e.g.:
//
//	DAYLOG_LEVEL=debug ./simple --format=txt
func main() {
	tmpDir, err := os.MkdirTemp("", "daylog-simple-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	logDir := filepath.Join(tmpDir, "logs")
	configFile := filepath.Join(tmpDir, "daylog.toml")

	configData := fmt.Sprintf(`[daylog]
level = 0
directory = %q
error_directory = %q
format = "json"
enable_console = true
enable_file_reports = true
buffer_size = 2048
flush_interval_ms = 100
`, logDir, filepath.Join(logDir, "error"))

	if err = os.WriteFile(configFile, []byte(configData), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
		os.Exit(1)
	}

	// File settings, then DAYLOG_* environment variables, then CLI
	// flags. Later tiers win.
	if err = daylog.LoadConfig(configFile, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	daylog.Info("application started", "version", "1.0.0", "pid", os.Getpid())
	daylog.Debug("configuration resolved", "config_file", configFile)
	daylog.Warn("disk usage above threshold", "percent", 81)
	daylog.Error("downstream unavailable", "service", "billing", "retry_in", "5s")

	var wg sync.WaitGroup
	for i := range 3 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 5 {
				daylog.Info("worker progress", "worker", id, "step", j)
				time.Sleep(10 * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	if err = daylog.Flush(time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "flush failed: %v\n", err)
	}

	stats := daylog.GetStats()
	fmt.Printf("processed=%d dropped=%d\n", stats.Processed, stats.Dropped)

	if err = daylog.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("log files are under %s\n", logDir)
}
