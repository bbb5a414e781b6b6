package daylog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// configPrefix namespaces daylog keys inside a shared TOML file
const configPrefix = "daylog."

// NewConfigFromFile loads configuration from a TOML file and returns a
// validated Config. A missing file is not an error; defaults apply.
func NewConfigFromFile(path string) (*Config, error) {
	return ResolveConfig(path, nil, nil, false)
}

// NewConfigFromDefaults creates a Config with default values and applies
// typed overrides keyed by toml tag
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfig resolves configuration from a TOML file, the environment and
// CLI arguments, then applies it to the logger. Precedence from lowest to
// highest: built-in defaults, file, environment, CLI.
func (l *Logger) LoadConfig(path string, args []string) error {
	cliOverrides, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := ResolveConfig(path, EnvOverrides(), cliOverrides, false)
	if err != nil {
		return err
	}

	return l.ApplyConfig(cfg)
}

// ResolveConfig runs the full resolution pipeline: defaults, then the TOML
// file at path, then the environment and explicit override tiers via Merge.
// The result is validated. Pass envOverrules to let the environment tier win
// over explicit overrides.
func ResolveConfig(path string, env, overrides map[string]string, envOverrules bool) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct(configPrefix, *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// ErrConfigNotFound keeps a missing file from being fatal
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractFileValues(loader, cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	merged, err := Merge(cfg, env, overrides, envOverrules)
	if err != nil {
		return nil, err
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return merged, nil
}

// parseArgs converts CLI arguments of the form key=value, -key=value or
// --key=value into an override map
func parseArgs(args []string) (map[string]string, error) {
	overrides := make(map[string]string, len(args))
	for _, arg := range args {
		trimmed := strings.TrimLeft(strings.TrimSpace(arg), "-")
		if trimmed == "" {
			continue
		}
		key, value, err := parseKeyValue(trimmed)
		if err != nil {
			return nil, err
		}
		overrides[key] = value
	}
	return overrides, nil
}

// configFields maps toml tags to the settable fields of cfg. Untagged fields
// and runtime-only ones marked "-" (the Formatter hook) are left out.
func configFields(cfg *Config) map[string]reflect.Value {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fields := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("toml")
		if tag == "" || tag == "-" {
			continue
		}
		fields[tag] = v.Field(i)
	}
	return fields
}

// extractFileValues copies every key the file loader saw into cfg; keys the
// file never mentioned keep their defaults
func extractFileValues(loader *config.Config, cfg *Config) error {
	for tag, field := range configFields(cfg) {
		val, found := loader.Get(configPrefix + tag)
		if !found {
			continue
		}
		if err := assignField(field, val); err != nil {
			return fmtErrorf("failed to set field %s: %w", tag, err)
		}
	}
	return nil
}

// applyOverrides writes typed override values into cfg by toml tag
func applyOverrides(cfg *Config, overrides map[string]any) error {
	fields := configFields(cfg)

	for key, value := range overrides {
		field, ok := fields[key]
		if !ok {
			return fmtErrorf("unknown config key: %s", key)
		}
		if err := assignField(field, value); err != nil {
			return fmtErrorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}

// assignField stores value into a reflected config field, absorbing the
// loose numeric types TOML decoding produces
func assignField(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
			return nil
		}
	case reflect.Int64:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
			return nil
		case int:
			field.SetInt(int64(n))
			return nil
		}
	case reflect.Float64:
		switch n := value.(type) {
		case float64:
			field.SetFloat(n)
			return nil
		case int64:
			field.SetFloat(float64(n))
			return nil
		case int:
			field.SetFloat(float64(n))
			return nil
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
			return nil
		}
	default:
		return fmtErrorf("unsupported field type: %v", field.Kind())
	}
	return fmtErrorf("expected %v, got %T", field.Kind(), value)
}
