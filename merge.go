package daylog

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// envPrefix marks environment variables that carry configuration overrides,
// e.g. DAYLOG_RETENTION_DAYS=30 becomes retention_days=30.
const envPrefix = "DAYLOG_"

// Merge builds an effective configuration from an ordered overlay of
// defaults, environment overrides and explicit overrides. Explicit overrides
// normally win; with envOverrules set the environment tier is applied last
// instead. The inputs are not modified. Any malformed entry fails the whole
// merge.
func Merge(defaults *Config, env, overrides map[string]string, envOverrules bool) (*Config, error) {
	if defaults == nil {
		defaults = DefaultConfig()
	}
	cfg := defaults.Clone()

	type tier struct {
		source string
		values map[string]string
	}
	tiers := []tier{{"environment", env}, {"override", overrides}}
	if envOverrules {
		tiers = []tier{{"override", overrides}, {"environment", env}}
	}

	var errs []error
	for _, t := range tiers {
		for _, key := range sortedKeys(t.values) {
			if err := applyConfigField(cfg, key, t.values[key]); err != nil {
				errs = append(errs, fmtErrorf("%s %s: %w", t.source, key, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, combineConfigErrors(errs)
	}
	return cfg, nil
}

// EnvOverrides collects configuration overrides from the process environment.
// A variable DAYLOG_<KEY>=<value> maps to the config key <key> in lower case.
func EnvOverrides() map[string]string {
	overrides := make(map[string]string)
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, envPrefix) {
			continue
		}
		key, value, found := strings.Cut(entry[len(envPrefix):], "=")
		if !found || key == "" {
			continue
		}
		overrides[strings.ToLower(key)] = value
	}
	return overrides
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyConfigField sets a single configuration field from its string form.
// Keys match the struct's toml tags. Value semantics are checked later by
// Validate; only type conversion fails here.
func applyConfigField(cfg *Config, key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "level":
		// Accept a level name or a raw numeric level
		if level, err := Level(value); err == nil {
			cfg.Level = level
			return nil
		}
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid level value '%s'", value)
		}
		cfg.Level = parsed

	case "enable_console":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value '%s' for enable_console", value)
		}
		cfg.EnableConsole = parsed

	case "enable_file_reports":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value '%s' for enable_file_reports", value)
		}
		cfg.EnableFileReports = parsed

	case "enable_error_reports":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value '%s' for enable_error_reports", value)
		}
		cfg.EnableErrorReports = parsed

	case "split_by_level":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value '%s' for split_by_level", value)
		}
		cfg.SplitByLevel = parsed

	case "directory":
		cfg.Directory = value

	case "error_directory":
		cfg.ErrorDirectory = value

	case "retention_days":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value '%s' for retention_days", value)
		}
		cfg.RetentionDays = parsed

	case "sweep_check_mins":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmtErrorf("invalid float value '%s' for sweep_check_mins", value)
		}
		cfg.SweepCheckMins = parsed

	case "format":
		cfg.Format = strings.ToLower(value)

	case "timestamp_format":
		cfg.TimestampFormat = value

	case "console_target":
		cfg.ConsoleTarget = strings.ToLower(value)

	case "failsafe_path":
		cfg.FailsafePath = value

	case "buffer_size":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value '%s' for buffer_size", value)
		}
		cfg.BufferSize = parsed

	case "flush_interval_ms":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value '%s' for flush_interval_ms", value)
		}
		cfg.FlushIntervalMs = parsed

	case "heartbeat_interval_s":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value '%s' for heartbeat_interval_s", value)
		}
		cfg.HeartbeatIntervalS = parsed

	default:
		return fmtErrorf("unknown config key: %s", key)
	}

	return nil
}

func combineConfigErrors(errs []error) error {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return fmtErrorf("config overrides failed: %s", strings.Join(messages, "; "))
}
