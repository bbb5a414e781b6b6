package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ferrmin/daylog"
)

// Exercises live reconfiguration and the stop/start cycle on a single
// logger instance while a background goroutine keeps logging. Records
// submitted while the processor is down are counted as drops, not
// lost silently.
func main() {
	var count atomic.Int64

	logger := daylog.NewLogger()
	err := logger.ApplyConfigString(
		"directory=./reconfig_logs",
		"error_directory=./reconfig_logs/error",
		"enable_file_reports=true",
		"failsafe_path=./reconfig_failsafe.log",
		"format=txt",
	)
	if err != nil {
		fmt.Printf("initial config error: %v\n", err)
		return
	}
	if err = logger.Start(); err != nil {
		fmt.Printf("start error: %v\n", err)
		return
	}

	go func() {
		for i := 0; ; i++ {
			logger.Info("steady traffic", "seq", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Flip the serialization format while records keep flowing.
	for i := range 6 {
		format := "json"
		if i%2 == 0 {
			format = "txt"
		}
		if err := logger.ApplyConfigString("format=" + format); err != nil {
			fmt.Printf("reconfig error: %v\n", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	// Pause processing entirely, then resume into the same day files.
	fmt.Println("stopping processor for 200ms...")
	if err := logger.Stop(time.Second); err != nil {
		fmt.Printf("stop error: %v\n", err)
	}
	time.Sleep(200 * time.Millisecond)
	if err := logger.Start(); err != nil {
		fmt.Printf("restart error: %v\n", err)
	}

	time.Sleep(500 * time.Millisecond)
	fmt.Printf("total logs attempted: %d\n", count.Load())

	stats := logger.Stats()
	fmt.Printf("processed=%d dropped=%d (drops accumulated while stopped)\n",
		stats.Processed, stats.Dropped)

	if err = logger.Shutdown(time.Second); err != nil {
		fmt.Printf("shutdown error: %v\n", err)
	}
}
