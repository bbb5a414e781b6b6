package daylog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsOnFreshLogger(t *testing.T) {
	logger := NewLogger()

	stats := logger.Stats()
	assert.Equal(t, uint64(0), stats.Processed)
	assert.Equal(t, uint64(0), stats.Dropped)
	assert.Equal(t, uint64(0), stats.HandleOpens)
	assert.Equal(t, uint64(0), stats.Rotations)
	assert.Equal(t, uint64(0), stats.Deletions)
	assert.Equal(t, uint64(0), stats.FailsafeReports)
	assert.GreaterOrEqual(t, stats.Uptime, time.Duration(0))
}

func TestStatsCountersAdvance(t *testing.T) {
	logger, paths := createTestLogger(t)
	defer logger.Shutdown()

	logger.Info("counter one")
	logger.Info("counter two")
	logger.Info("counter three")

	waitForText(t, dayFile(paths.logDir, "all"), "counter three")

	stats := logger.Stats()
	assert.GreaterOrEqual(t, stats.Processed, uint64(3))
	assert.GreaterOrEqual(t, stats.HandleOpens, uint64(1))
	assert.Equal(t, uint64(0), stats.Dropped)
}

// TestStatsHandleOpensPerTarget confirms each day file costs exactly one
// handle open
func TestStatsHandleOpensPerTarget(t *testing.T) {
	logger, paths := createTestLogger(t)
	defer logger.Shutdown()

	logger.Info("to the combined file")
	logger.Error("to the error file")

	waitForText(t, dayFile(paths.logDir, "all"), "to the combined file")
	waitForText(t, dayFile(paths.errDir, "error"), "to the error file")

	stats := logger.Stats()
	assert.Equal(t, uint64(2), stats.HandleOpens)
	assert.Equal(t, uint64(2), stats.Processed)
}

// TestStatsFailsafeReports verifies usage errors surface in the stats
func TestStatsFailsafeReports(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	logger.Write(99, "bad level")

	// Usage errors are reported synchronously from the caller
	assert.Equal(t, uint64(1), logger.Stats().FailsafeReports)
}

func TestStatsUptimeAdvances(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	first := logger.Stats().Uptime
	time.Sleep(20 * time.Millisecond)
	second := logger.Stats().Uptime

	assert.Greater(t, second, first)
}

func TestFlushTimeout(t *testing.T) {
	// Pin the processor inside a slow formatter so the confirmation cannot
	// arrive before the flush deadline
	entered := make(chan struct{})
	logger, _ := createTestLogger(t, func(cfg *Config) {
		cfg.Formatter = func(ts time.Time, level int64, message string, fields map[string]any) []byte {
			close(entered)
			time.Sleep(300 * time.Millisecond)
			return []byte("slow record\n")
		}
	})
	defer logger.Shutdown(2 * time.Second)

	logger.Info("slow record")
	<-entered

	err := logger.Flush(50 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

// TestConcurrentFlush checks that overlapping flush calls serialize cleanly
func TestConcurrentFlush(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			logger.Info("concurrent flush", "slot", slot)
			errs[slot] = logger.Flush(time.Second)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
