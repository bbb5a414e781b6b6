package daylog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all logger configuration values. A Config applied to a Logger
// is treated as an immutable snapshot; reconfiguration installs a new one.
type Config struct {
	// Routing
	Level              int64 `toml:"level"`
	EnableConsole      bool  `toml:"enable_console"`       // Echo records to the console target
	EnableFileReports  bool  `toml:"enable_file_reports"`  // Write non-error records to file
	EnableErrorReports bool  `toml:"enable_error_reports"` // Write error records to file
	SplitByLevel       bool  `toml:"split_by_level"`       // One file per level instead of a shared file

	// Directories
	Directory      string `toml:"directory" validate:"required"`
	ErrorDirectory string `toml:"error_directory" validate:"required"`

	// Retention
	RetentionDays  int64   `toml:"retention_days" validate:"min=0"`   // Age threshold for deletion (0=disabled)
	SweepCheckMins float64 `toml:"sweep_check_mins" validate:"min=0"` // Sweep schedule granularity

	// Formatting
	Format          string     `toml:"format" validate:"oneof=txt json"`
	TimestampFormat string     `toml:"timestamp_format" validate:"required"`
	Formatter       FormatFunc `toml:"-"` // Overrides the built-in serializer when set

	// Console output
	ConsoleTarget string `toml:"console_target" validate:"oneof=stdout stderr"`

	// Failure reporting
	FailsafePath string `toml:"failsafe_path" validate:"required"`

	// Buffer and timers
	BufferSize         int64 `toml:"buffer_size" validate:"gt=0"`           // Record channel capacity
	FlushIntervalMs    int64 `toml:"flush_interval_ms" validate:"gt=0"`     // Periodic handle sync cadence
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s" validate:"min=0"` // Stats heartbeat (0=disabled)
}

// defaultConfig seeds every resolver tier and the builder
var defaultConfig = Config{
	Level:              LevelLog,
	EnableConsole:      false,
	EnableFileReports:  false,
	EnableErrorReports: true,
	SplitByLevel:       false,

	Directory:      "./log",
	ErrorDirectory: "./log/error",

	RetentionDays:  0,
	SweepCheckMins: defaultSweepCheckMins,

	Format:          "txt",
	TimestampFormat: time.RFC3339,
	Formatter:       nil,

	ConsoleTarget: "stdout",

	FailsafePath: filepath.Join(os.TempDir(), defaultFailsafeName),

	BufferSize:         1024,
	FlushIntervalMs:    100,
	HeartbeatIntervalS: 0,
}

// DefaultConfig returns a fresh copy of the built-in defaults. Callers may
// mutate the result freely before applying it.
func DefaultConfig() *Config {
	cfg := defaultConfig
	return &cfg
}

var (
	structValidator *validator.Validate
	validatorOnce   sync.Once
)

// Validate checks the configuration for field and cross-field consistency
func (c *Config) Validate() error {
	validatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := structValidator.Struct(c); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	if !levelValid(c.Level) {
		return fmtErrorf("invalid level %d (use LevelDebug, LevelLog, LevelInfo, LevelWarn, or LevelError)", c.Level)
	}

	if c.RetentionDays > 0 && c.SweepCheckMins <= 0 {
		return fmtErrorf("sweep_check_mins must be positive when retention is enabled: %f", c.SweepCheckMins)
	}

	// The fallback sink must survive sweeps and closeAll, so it cannot live
	// in a managed directory.
	if pathInside(c.Directory, c.FailsafePath) || pathInside(c.ErrorDirectory, c.FailsafePath) {
		return fmtErrorf("failsafe_path '%s' cannot be inside a managed log directory", c.FailsafePath)
	}

	return nil
}

// Clone returns an independent copy of the configuration
func (c *Config) Clone() *Config {
	cfg := *c
	return &cfg
}

// configRequiresRestart reports whether switching between the two
// configurations needs the processor stopped and restarted. Timer intervals
// and the channel buffer are read once at processor start; directory moves
// obsolete the cached handles.
func configRequiresRestart(old, new *Config) bool {
	return old.Directory != new.Directory ||
		old.ErrorDirectory != new.ErrorDirectory ||
		old.BufferSize != new.BufferSize ||
		old.FlushIntervalMs != new.FlushIntervalMs ||
		old.RetentionDays != new.RetentionDays ||
		old.SweepCheckMins != new.SweepCheckMins ||
		old.HeartbeatIntervalS != new.HeartbeatIntervalS
}

// pathInside reports whether target resolves to dir or a path beneath it
func pathInside(dir, target string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
