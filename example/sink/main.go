package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ferrmin/daylog"
)

const (
	logDirectory = "./sink_logs"
	logInterval  = 200 * time.Millisecond
)

// Walks through the output-target combinations: file only, stdout
// only, stderr only, everything off, per-level file splitting, and
// live transitions between them on a single logger instance.
func main() {
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- output target scenarios ---")
	fmt.Printf("file-based logs land in %s\n\n", logDirectory)

	fileOnly()
	stdoutOnly()
	stderrOnly()
	silenced()
	splitByLevel()

	fmt.Println("\n--- reconfiguration transitions on one instance ---")
	transitions()

	fmt.Printf("\ncheck the %s directory for the day files\n", logDirectory)
}

func fileOnly() {
	logger := daylog.NewLogger()
	runPhase(logger, "1.1: file-only",
		"directory="+logDirectory,
		"error_directory="+logDirectory+"/error",
		"failsafe_path=./sink_failsafe.log",
		"level=debug",
	)
	shutdownLogger(logger, "1.1: file-only")
}

func stdoutOnly() {
	logger := daylog.NewLogger()
	runPhase(logger, "1.2: stdout-only",
		"enable_console=true",
		"enable_file_reports=false",
		"enable_error_reports=false",
		"level=debug",
	)
	shutdownLogger(logger, "1.2: stdout-only")
}

func stderrOnly() {
	fmt.Fprintln(os.Stderr, "---")
	logger := daylog.NewLogger()
	runPhase(logger, "1.3: stderr-only",
		"enable_console=true",
		"console_target=stderr",
		"enable_file_reports=false",
		"enable_error_reports=false",
		"level=debug",
	)
	fmt.Fprintln(os.Stderr, "---")
	shutdownLogger(logger, "1.3: stderr-only")
}

func silenced() {
	logger := daylog.NewLogger()
	runPhase(logger, "1.4: no-output (records route nowhere)",
		"enable_console=false",
		"enable_file_reports=false",
		"enable_error_reports=false",
		"level=debug",
	)
	shutdownLogger(logger, "1.4: no-output")
}

func splitByLevel() {
	logger := daylog.NewLogger()
	runPhase(logger, "1.5: split-by-level (one day file per severity)",
		"directory="+logDirectory,
		"error_directory="+logDirectory+"/error",
		"failsafe_path=./sink_failsafe.log",
		"split_by_level=true",
		"level=debug",
	)
	logger.Debug("lands in the debug file")
	logger.Warn("lands in the warn file")
	logger.Error("lands in the error directory")
	time.Sleep(logInterval)
	shutdownLogger(logger, "1.5: split-by-level")
}

func transitions() {
	logger := daylog.NewLogger()

	runPhase(logger, "2.1: initial (file + stdout)",
		"directory="+logDirectory,
		"error_directory="+logDirectory+"/error",
		"failsafe_path=./sink_failsafe.log",
		"enable_console=true",
		"level=debug",
	)

	runPhase(logger, "2.2: transition to stdout-only",
		"enable_console=true",
		"enable_file_reports=false",
		"enable_error_reports=false",
		"level=debug",
	)

	// Re-enabling the file targets must reopen the day files cleanly.
	runPhase(logger, "2.3: transition back to file + stdout",
		"directory="+logDirectory,
		"error_directory="+logDirectory+"/error",
		"enable_console=true",
		"enable_file_reports=true",
		"enable_error_reports=true",
		"level=debug",
	)

	fmt.Println("\n[phase 2.4: all levels on the final state]")
	logger.Debug("debug after the round trip")
	logger.Info("info after the round trip")
	logger.Warn("warn after the round trip")
	logger.Error("error after the round trip")
	time.Sleep(logInterval)

	shutdownLogger(logger, "2: reconfiguration")
}

func runPhase(logger *daylog.Logger, phaseName string, overrides ...string) {
	fmt.Printf("\n[phase %s]\n", phaseName)
	fmt.Println("  config:", overrides)

	if err := logger.ApplyConfigString(overrides...); err != nil {
		fmt.Printf("  error: failed to reconfigure: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Start(); err != nil {
		fmt.Printf("  error: failed to start: %v\n", err)
		os.Exit(1)
	}

	logger.Info("phase started", "name", phaseName)
	time.Sleep(logInterval)
	logger.Info("phase finished", "name", phaseName)
	time.Sleep(logInterval)
}

func shutdownLogger(l *daylog.Logger, phaseName string) {
	if err := l.Shutdown(500 * time.Millisecond); err != nil {
		fmt.Printf("  warning: shutdown error in phase %s: %v\n", phaseName, err)
	}
}
