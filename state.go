package daylog

import (
	"sync"
	"sync/atomic"
)

// State carries the logger's mutable runtime state. Everything in it is
// atomic so the hot write path never takes a lock.
type State struct {
	IsInitialized   atomic.Bool
	LoggerDisabled  atomic.Bool
	Started         atomic.Bool
	ShutdownCalled  atomic.Bool
	Terminated      atomic.Bool
	ProcessorExited atomic.Bool // False while the processor goroutine runs
	SweepRunning    atomic.Bool // Re-entrancy guard for retention sweeps

	flushRequestChan chan chan struct{} // Flush hands its confirm channel to the processor here
	flushMutex       sync.Mutex         // Serializes Flush callers

	ActiveLogChannel atomic.Value // stores chan logRecord
	ConsoleWriter    atomic.Value // stores *sink (os.Stdout, os.Stderr, or io.Discard)

	DroppedLogs      atomic.Uint64 // Unreported drops awaiting an in-band report
	TotalDroppedLogs atomic.Uint64 // Drops over the instance lifetime

	// Counters behind Stats and the heartbeat record
	HeartbeatSequence  atomic.Uint64
	LoggerStartTime    atomic.Value  // stores time.Time, set when the logger is created
	TotalLogsProcessed atomic.Uint64 // Records rendered for output
	TotalHandleOpens   atomic.Uint64 // File handles created by the cache
	TotalRotations     atomic.Uint64 // Handles closed at day boundaries
	TotalDeletions     atomic.Uint64 // Files removed by retention sweeps
}
