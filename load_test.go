package daylog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile drops a TOML fragment into a temp file and returns its path
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolveConfigFromFile(t *testing.T) {
	path := writeConfigFile(t, `
[daylog]
level = -8
format = "json"
buffer_size = 256
enable_console = true
sweep_check_mins = 2.5
`)

	cfg, err := ResolveConfig(path, nil, nil, false)
	require.NoError(t, err)

	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, int64(256), cfg.BufferSize)
	assert.True(t, cfg.EnableConsole)
	assert.Equal(t, 2.5, cfg.SweepCheckMins)
	// Keys absent from the file keep their defaults
	assert.Equal(t, int64(100), cfg.FlushIntervalMs)
}

func TestResolveConfigMissingFile(t *testing.T) {
	cfg, err := ResolveConfig(filepath.Join(t.TempDir(), "nope.toml"), nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), cfg.BufferSize)
	assert.Equal(t, LevelLog, cfg.Level)
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
[daylog]
buffer_size = 111
`)
	env := map[string]string{"buffer_size": "222"}
	overrides := map[string]string{"buffer_size": "333"}

	cfg, err := ResolveConfig(path, env, overrides, false)
	require.NoError(t, err)
	assert.Equal(t, int64(333), cfg.BufferSize, "explicit overrides beat environment and file")

	cfg, err = ResolveConfig(path, env, overrides, true)
	require.NoError(t, err)
	assert.Equal(t, int64(222), cfg.BufferSize, "environment beats overrides when it overrules")

	cfg, err = ResolveConfig(path, nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, int64(111), cfg.BufferSize, "file beats defaults")
}

func TestResolveConfigValidatesResult(t *testing.T) {
	path := writeConfigFile(t, `
[daylog]
buffer_size = 0
`)

	cfg, err := ResolveConfig(path, nil, nil, false)
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestNewConfigFromFileMissing(t *testing.T) {
	cfg, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "txt", cfg.Format)
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected map[string]string
		wantErr  bool
	}{
		{
			name:     "bare key value",
			args:     []string{"level=warn"},
			expected: map[string]string{"level": "warn"},
		},
		{
			name:     "single and double dash",
			args:     []string{"-format=json", "--buffer_size=512"},
			expected: map[string]string{"format": "json", "buffer_size": "512"},
		},
		{
			name:     "surrounding whitespace",
			args:     []string{"  --level=debug  "},
			expected: map[string]string{"level": "debug"},
		},
		{
			name:     "empty and dash-only arguments are skipped",
			args:     []string{"", "--", "level=info"},
			expected: map[string]string{"level": "info"},
		},
		{
			name:    "missing equals",
			args:    []string{"--verbose"},
			wantErr: true,
		},
		{
			name:    "missing key",
			args:    []string{"=json"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides, err := parseArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, overrides)
		})
	}
}

func TestNewConfigFromDefaults(t *testing.T) {
	t.Run("typed overrides", func(t *testing.T) {
		cfg, err := NewConfigFromDefaults(map[string]any{
			"buffer_size":      2048,
			"sweep_check_mins": 5,
			"format":           "json",
			"enable_console":   true,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(2048), cfg.BufferSize)
		assert.Equal(t, float64(5), cfg.SweepCheckMins)
		assert.Equal(t, "json", cfg.Format)
		assert.True(t, cfg.EnableConsole)
	})

	t.Run("unrecognized key", func(t *testing.T) {
		cfg, err := NewConfigFromDefaults(map[string]any{"verbosity": 3})
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "unknown config key")
	})

	t.Run("wrong value type", func(t *testing.T) {
		cfg, err := NewConfigFromDefaults(map[string]any{"buffer_size": "big"})
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "expected int64")
	})

	t.Run("result is validated", func(t *testing.T) {
		cfg, err := NewConfigFromDefaults(map[string]any{"buffer_size": 0})
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

// TestLoggerLoadConfig exercises the full resolution pipeline end to end
func TestLoggerLoadConfig(t *testing.T) {
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	errDir := filepath.Join(root, "logs", "error")
	failsafe := filepath.Join(root, "failsafe.log")

	path := writeConfigFile(t, `
[daylog]
directory = "`+logDir+`"
error_directory = "`+errDir+`"
failsafe_path = "`+failsafe+`"
enable_file_reports = true
flush_interval_ms = 10
format = "txt"
`)

	t.Setenv("DAYLOG_LEVEL", "debug")

	logger := NewLogger()
	require.NoError(t, logger.LoadConfig(path, []string{"--format=json"}))
	defer logger.Shutdown()

	cfg := logger.GetConfig()
	assert.Equal(t, logDir, cfg.Directory, "from file")
	assert.Equal(t, LevelDebug, cfg.Level, "from environment")
	assert.Equal(t, "json", cfg.Format, "from CLI arguments")

	require.NoError(t, logger.Start())
	logger.Debug("resolved and running")

	content := waitForText(t, dayFile(logDir, "all"), "resolved and running")
	assert.Contains(t, content, `"level":"DEBUG"`)
}

func TestLoggerLoadConfigBadArgs(t *testing.T) {
	logger := NewLogger()
	err := logger.LoadConfig("unused.toml", []string{"garbage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}
