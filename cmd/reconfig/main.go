package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ferrmin/daylog"
)

// Reconfigures the package-level logger rapidly while another
// goroutine logs continuously. Buffer size changes force the
// processor to restart on every pass, so this exercises the
// stop-drain-start path under concurrent writes.
func main() {
	var count atomic.Int64

	err := daylog.InitWithDefaults(
		"directory=./reconfig_logs",
		"enable_file_reports=true",
		"error_directory=./reconfig_logs/error",
		"failsafe_path=./reconfig_failsafe.log",
	)
	if err != nil {
		fmt.Printf("initial init error: %v\n", err)
		return
	}

	go func() {
		for i := 0; ; i++ {
			daylog.Info("steady traffic", "seq", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	for i := range 10 {
		bufSize := fmt.Sprintf("buffer_size=%d", 100*(i+1))
		err := daylog.InitWithDefaults(
			"directory=./reconfig_logs",
			"enable_file_reports=true",
			"error_directory=./reconfig_logs/error",
			"failsafe_path=./reconfig_failsafe.log",
			bufSize,
		)
		if err != nil {
			fmt.Printf("reconfig error: %v\n", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	fmt.Printf("total logs attempted: %d\n", count.Load())

	stats := daylog.GetStats()
	fmt.Printf("processed=%d dropped=%d\n", stats.Processed, stats.Dropped)

	if err = daylog.Shutdown(time.Second); err != nil {
		fmt.Printf("shutdown error: %v\n", err)
	}
}
