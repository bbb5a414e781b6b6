package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ferrmin/daylog"
)

const (
	writers   = 200
	runFor    = 5 * time.Second
	statsTick = time.Second
)

var wordPool = []string{
	"reconcile", "checkpoint", "lease", "compact", "evict",
	"replay", "snapshot", "quorum", "backfill", "handover",
}

var recordLevels = []int64{
	daylog.LevelDebug,
	daylog.LevelLog,
	daylog.LevelInfo,
	daylog.LevelWarn,
	daylog.LevelError,
}

func message(r *rand.Rand) string {
	parts := make([]string, 2+r.Intn(6))
	for i := range parts {
		parts[i] = wordPool[r.Intn(len(wordPool))]
	}
	return strings.Join(parts, " ")
}

// writer submits records as fast as the logger accepts them until ctx ends
func writer(ctx context.Context, id int, logger *daylog.Logger, sent *atomic.Uint64) {
	r := rand.New(rand.NewSource(int64(id) ^ time.Now().UnixNano()))
	for seq := 0; ; seq++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		logger.Write(recordLevels[r.Intn(len(recordLevels))], message(r),
			"writer", id,
			"seq", seq,
		)
		sent.Add(1)
	}
}

// Floods the logger through a deliberately small buffer so drop accounting
// and the in-band "logs were dropped" reports can be observed in the output
// files.
func main() {
	logsDir := "./stress_logs"
	_ = os.RemoveAll(logsDir)

	logger, err := daylog.NewBuilder().
		LevelString("debug").
		EnableFileReports(true).
		Directory(logsDir).
		ErrorDirectory(logsDir + "/error").
		FailsafePath("./stress_failsafe.log").
		BufferSize(512).
		FlushIntervalMs(50).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimed := context.WithTimeout(ctx, runFor)
	defer cancelTimed()

	fmt.Printf("%d writers against a 512-record buffer in %s for up to %v\n", writers, logsDir, runFor)
	fmt.Println("watch the files for 'logs were dropped' reports, Ctrl+C stops early")

	var sent atomic.Uint64
	var wg sync.WaitGroup
	start := time.Now()

	for id := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			writer(ctx, id, logger, &sent)
		}()
	}

	go func() {
		ticker := time.NewTicker(statsTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := logger.Stats()
				fmt.Printf("sent=%d processed=%d dropped=%d\n", sent.Load(), s.Processed, s.Dropped)
			}
		}
	}()

	<-ctx.Done()
	wg.Wait()
	elapsed := time.Since(start)

	if err := logger.Shutdown(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
	}

	s := logger.Stats()
	total := sent.Load()
	fmt.Printf("\nsubmitted %d records in %v (%.0f/sec)\n",
		total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	fmt.Printf("processed=%d dropped=%d handle_opens=%d rotations=%d deletions=%d failsafe=%d\n",
		s.Processed, s.Dropped, s.HandleOpens, s.Rotations, s.Deletions, s.FailsafeReports)
}
