package daylog

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStopLifecycle(t *testing.T) {
	logger, _ := createTestLogger(t)

	assert.True(t, logger.state.Started.Load())

	err := logger.Stop()
	require.NoError(t, err)
	assert.False(t, logger.state.Started.Load())
	assert.True(t, logger.state.ProcessorExited.Load())

	err = logger.Start()
	require.NoError(t, err)
	assert.True(t, logger.state.Started.Load())

	logger.Shutdown()
}

func TestStartTwice(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	err := logger.Start()
	assert.NoError(t, err)
	assert.True(t, logger.state.Started.Load())
}

func TestStopTwice(t *testing.T) {
	logger, _ := createTestLogger(t)

	err := logger.Stop()
	require.NoError(t, err)

	err = logger.Stop()
	assert.NoError(t, err)
	assert.False(t, logger.state.Started.Load())

	logger.Shutdown()
}

func TestStartUninitialized(t *testing.T) {
	logger := NewLogger()

	err := logger.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

// TestStopReconfigureRestart verifies a stopped logger picks up new settings
// on restart and keeps appending to the same day file
func TestStopReconfigureRestart(t *testing.T) {
	logger, paths := createTestLogger(t)

	logger.Info("before the stop")
	waitForText(t, dayFile(paths.logDir, "all"), "before the stop")

	require.NoError(t, logger.Stop(time.Second))

	cfg := logger.GetConfig()
	cfg.Format = "json"
	require.NoError(t, logger.ApplyConfig(cfg))

	require.NoError(t, logger.Start())
	logger.Info("after the restart")

	content := waitForText(t, dayFile(paths.logDir, "all"), "after the restart")
	assert.Contains(t, content, "INFO before the stop")
	assert.Contains(t, content, `"message":"after the restart"`)

	logger.Shutdown(time.Second)
}

func TestRecordsDroppedWhileStopped(t *testing.T) {
	logger, paths := createTestLogger(t)

	logger.Info("while running")
	waitForText(t, dayFile(paths.logDir, "all"), "while running")

	require.NoError(t, logger.Stop(time.Second))

	logger.Warn("while stopped")

	logger.Shutdown(time.Second)

	content, err := os.ReadFile(dayFile(paths.logDir, "all"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "while stopped")
}

func TestShutdownLifecycle(t *testing.T) {
	logger, _ := createTestLogger(t)

	assert.True(t, logger.state.Started.Load())
	assert.True(t, logger.state.IsInitialized.Load())

	err := logger.Shutdown()
	require.NoError(t, err)

	assert.True(t, logger.state.ShutdownCalled.Load())
	assert.True(t, logger.state.Terminated.Load())
	assert.False(t, logger.state.IsInitialized.Load())
	assert.False(t, logger.state.Started.Load())

	// The transition is terminal
	err = logger.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has been shut down")

	err = logger.ApplyConfig(DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has been shut down")

	logger.Info("ignored after shutdown")

	err = logger.Flush(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}

func TestShutdownUninitialized(t *testing.T) {
	logger := NewLogger()

	err := logger.Shutdown()
	assert.NoError(t, err)
	assert.True(t, logger.state.Terminated.Load())
	assert.True(t, logger.state.ProcessorExited.Load())
}

// TestSignalRegistryShutdown drives the registry directly rather than
// raising a real signal
func TestSignalRegistryShutdown(t *testing.T) {
	registered, _ := createTestLogger(t)
	bystander, _ := createTestLogger(t)
	defer bystander.Shutdown()

	registered.RegisterShutdownSignals()
	// Unregistering a logger that was never registered is a no-op
	bystander.UnregisterShutdownSignals()

	shutdownRegisteredLoggers()

	assert.True(t, registered.state.Terminated.Load())
	assert.False(t, bystander.state.Terminated.Load())
	assert.True(t, bystander.state.Started.Load())
}

func TestRegisterShutdownSignalsIdempotent(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	logger.RegisterShutdownSignals()
	logger.RegisterShutdownSignals()

	signalMu.Lock()
	_, present := signalLoggers[logger]
	signalMu.Unlock()
	assert.True(t, present)

	// Shutdown removes the logger from the registry
	logger.Shutdown()
	signalMu.Lock()
	_, present = signalLoggers[logger]
	signalMu.Unlock()
	assert.False(t, present)
}

// TestHandlePanic verifies an escaping panic is reported to the failsafe
// sink and converted into a failure exit
func TestHandlePanic(t *testing.T) {
	logger, paths := createTestLogger(t)

	exitCode := -1
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = os.Exit }()

	func() {
		defer logger.HandlePanic()
		panic("kaboom")
	}()

	assert.Equal(t, 1, exitCode)
	assert.True(t, logger.state.Terminated.Load())

	content, err := os.ReadFile(paths.failsafe)
	require.NoError(t, err)
	assert.Contains(t, string(content), "unhandled panic: kaboom")
}

func TestHandlePanicWithoutPanic(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Shutdown()

	exitCode := -1
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = os.Exit }()

	func() {
		defer logger.HandlePanic()
	}()

	assert.Equal(t, -1, exitCode)
	assert.True(t, logger.state.Started.Load())
}
