package daylog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullLifecycle(t *testing.T) {
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	errDir := filepath.Join(root, "logs", "error")

	logger, err := NewBuilder().
		Directory(logDir).
		ErrorDirectory(errDir).
		FailsafePath(filepath.Join(root, "failsafe.log")).
		LevelString("debug").
		Format("json").
		EnableFileReports(true).
		BufferSize(1000).
		FlushIntervalMs(10).
		Build()

	require.NoError(t, err)
	require.NotNil(t, logger)

	defer func() {
		err := logger.Shutdown(2 * time.Second)
		assert.NoError(t, err, "shutdown should be clean")
	}()

	logger.Debug("cache primed")
	logger.Log("tick observed")
	logger.Info("user signed in", "user_id", 123, "action", "login", "success", true)
	logger.Warn("quota at 80 percent")
	logger.Error("backend unreachable", "attempt", 3)
	logger.Write(LevelInfo, "written message")

	// Records are rendered with the config current at processing time, so
	// drain before the format flip
	waitForText(t, dayFile(logDir, "all"), "written message")

	// Format changes take effect without a restart
	require.NoError(t, logger.ApplyConfigString("format=txt"))
	logger.Info("rendered as txt now")

	content := waitForText(t, dayFile(logDir, "all"), "rendered as txt now")
	assert.Contains(t, content, `"level":"DEBUG"`)
	assert.Contains(t, content, `"message":"tick observed"`)
	assert.Contains(t, content, `"user_id":123`)
	assert.Contains(t, content, `"success":true`)
	assert.Contains(t, content, `"message":"written message"`)
	assert.Contains(t, content, "INFO rendered as txt now")
	assert.NotContains(t, content, "backend unreachable", "error records never land in the combined file")

	errContent := waitForText(t, dayFile(errDir, "error"), "backend unreachable")
	assert.Contains(t, errContent, `"attempt":3`)

	require.NoError(t, logger.Flush(time.Second))

	stats := logger.Stats()
	assert.GreaterOrEqual(t, stats.Processed, uint64(7))
	assert.Equal(t, uint64(0), stats.Dropped)
}

func TestConcurrentOperations(t *testing.T) {
	t.Run("traffic with live reconfiguration", func(t *testing.T) {
		logger, paths := createTestLogger(t)
		defer logger.Shutdown()

		var wg sync.WaitGroup

		// A hundred records never overflow the hundred-slot buffer
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					logger.Info("traffic record", "worker", id, "seq", j)
				}
			}(i)
		}

		// Format flips do not restart the processor
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, format := range []string{"json", "txt", "json", "txt"} {
				assert.NoError(t, logger.ApplyConfigString("format="+format))
				time.Sleep(10 * time.Millisecond)
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				assert.NoError(t, logger.Flush(time.Second))
				time.Sleep(10 * time.Millisecond)
			}
		}()

		wg.Wait()

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			content, err := os.ReadFile(dayFile(paths.logDir, "all"))
			if err == nil && strings.Count(string(content), "traffic record") == 100 {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}

		content, err := os.ReadFile(dayFile(paths.logDir, "all"))
		require.NoError(t, err)
		assert.Equal(t, 100, strings.Count(string(content), "traffic record"))
		assert.Equal(t, uint64(0), logger.Stats().Dropped)
	})

	t.Run("traffic across processor restarts", func(t *testing.T) {
		logger, paths := createTestLogger(t)
		defer logger.Shutdown()

		var wg sync.WaitGroup
		stop := make(chan struct{})

		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
					logger.Info("background record", "seq", i)
					time.Sleep(time.Millisecond)
				}
			}
		}()

		// Buffer size changes force a stop and restart under traffic
		for i := 0; i < 3; i++ {
			require.NoError(t, logger.ApplyConfigString(fmt.Sprintf("buffer_size=%d", 100+i*100)))
			time.Sleep(20 * time.Millisecond)
		}
		close(stop)
		wg.Wait()

		assert.True(t, logger.state.Started.Load())
		assert.Equal(t, int64(300), logger.GetConfig().BufferSize)

		logger.Info("final record")
		waitForText(t, dayFile(paths.logDir, "all"), "final record")
	})
}

func TestErrorRecovery(t *testing.T) {
	t.Run("unusable directory", func(t *testing.T) {
		root := t.TempDir()
		blocker := filepath.Join(root, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		logger, err := NewBuilder().
			Directory(filepath.Join(blocker, "logs")).
			ErrorDirectory(filepath.Join(root, "error")).
			FailsafePath(filepath.Join(root, "failsafe.log")).
			EnableFileReports(true).
			Build()

		assert.Error(t, err)
		assert.Nil(t, logger)
	})

	t.Run("rollback keeps previous config", func(t *testing.T) {
		logger, paths := createTestLogger(t)
		defer logger.Shutdown()

		blocker := filepath.Join(paths.root, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		bad := logger.GetConfig()
		bad.Directory = filepath.Join(blocker, "logs")
		err := logger.ApplyConfig(bad)
		require.Error(t, err)

		assert.Equal(t, paths.logDir, logger.GetConfig().Directory)

		// The logger still works on the old configuration
		logger.Info("after failed reconfiguration")
		waitForText(t, dayFile(paths.logDir, "all"), "after failed reconfiguration")
	})
}

// TestDefaultLoggerLifecycle is the only test touching the package-level
// logger; its shutdown is terminal for the whole binary
func TestDefaultLoggerLifecycle(t *testing.T) {
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	errDir := filepath.Join(root, "logs", "error")

	require.NoError(t, InitWithDefaults(
		"directory="+logDir,
		"error_directory="+errDir,
		"failsafe_path="+filepath.Join(root, "failsafe.log"),
		"enable_file_reports=true",
		"flush_interval_ms=10",
	))

	assert.Same(t, defaultLogger, Default())

	Info("package level info", "source", "default")
	Warn("package level warning")
	Error("package level error")
	Log("package level log")

	waitForText(t, dayFile(logDir, "all"), "package level warning")
	waitForText(t, dayFile(errDir, "error"), "package level error")

	require.NoError(t, Flush(time.Second))

	stats := GetStats()
	assert.GreaterOrEqual(t, stats.Processed, uint64(4))

	require.NoError(t, Shutdown(2*time.Second))

	// Terminal: further package-level calls are silent and re-init fails
	Info("after shutdown")
	err := InitWithDefaults("directory=" + logDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has been shut down")
}
