package daylog

// Builder assembles a Config through chained setter calls. Setter errors are
// held back and surfaced by Build.
type Builder struct {
	cfg *Config
	err error // First setter error, reported by Build
}

// NewBuilder starts a builder from the default configuration.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates the assembled configuration, then returns a started Logger
// using it.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	if err := logger.Start(); err != nil {
		return nil, err
	}

	return logger, nil
}

// Level sets the minimum log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the minimum log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// EnableConsole enables echoing records to the console target.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr" for console output.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// EnableFileReports enables writing non-error records to file.
func (b *Builder) EnableFileReports(enable bool) *Builder {
	b.cfg.EnableFileReports = enable
	return b
}

// EnableErrorReports enables writing error records to file.
func (b *Builder) EnableErrorReports(enable bool) *Builder {
	b.cfg.EnableErrorReports = enable
	return b
}

// SplitByLevel switches non-error output to one file per level.
func (b *Builder) SplitByLevel(split bool) *Builder {
	b.cfg.SplitByLevel = split
	return b
}

// Directory sets where non-error log files are written.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// ErrorDirectory sets the error log directory.
func (b *Builder) ErrorDirectory(dir string) *Builder {
	b.cfg.ErrorDirectory = dir
	return b
}

// RetentionDays sets the retention threshold in days. Zero disables
// retention sweeps.
func (b *Builder) RetentionDays(days int64) *Builder {
	b.cfg.RetentionDays = days
	return b
}

// SweepCheckMins sets how often retention is checked.
func (b *Builder) SweepCheckMins(mins float64) *Builder {
	b.cfg.SweepCheckMins = mins
	return b
}

// Format selects the built-in serializer mode, "txt" or "json".
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// TimestampFormat sets the record timestamp layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// Formatter installs a custom record formatter.
func (b *Builder) Formatter(f FormatFunc) *Builder {
	b.cfg.Formatter = f
	return b
}

// FailsafePath sets the sentinel file for internal fault reports.
func (b *Builder) FailsafePath(path string) *Builder {
	b.cfg.FailsafePath = path
	return b
}

// BufferSize sets the record channel capacity.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// FlushIntervalMs sets the interval for flushing file buffers.
func (b *Builder) FlushIntervalMs(interval int64) *Builder {
	b.cfg.FlushIntervalMs = interval
	return b
}

// HeartbeatIntervalS sets the stats heartbeat interval.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Example usage:
// logger, err := daylog.NewBuilder().
//
//	Directory("/srv/data/logs").
//	SplitByLevel(true).
//	RetentionDays(14).
//	Format("json").
//	Build()
//
// if err == nil {
//
//	defer logger.Shutdown()
//	logger.Info("logging online")
//
// }
