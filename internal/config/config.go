package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the effective cmtr configuration. A cap value <= 0 disables
// that limit.
type Config struct {
	Model           string  `yaml:"model" envconfig:"CMTR_MODEL"`
	MaxDiffBytes    int     `yaml:"max_diff_bytes" envconfig:"CMTR_MAX_DIFF_BYTES"`
	MaxPatchLines   int     `yaml:"max_patch_lines" envconfig:"CMTR_MAX_PATCH_LINES"`
	MaxLogEntries   int     `yaml:"max_log_entries" envconfig:"CMTR_MAX_LOG_ENTRIES"`
	MaxLogPaths     int     `yaml:"max_log_paths" envconfig:"CMTR_MAX_LOG_PATHS"`
	MaxLogBodyLines int     `yaml:"max_log_body_lines" envconfig:"CMTR_MAX_LOG_BODY_LINES"`
	TimeoutSeconds  float64 `yaml:"timeout_seconds" envconfig:"CMTR_TIMEOUT_SECONDS"`
	ReasoningEffort string  `yaml:"reasoning_effort" envconfig:"CMTR_REASONING_EFFORT"`
	TextVerbosity   string  `yaml:"text_verbosity" envconfig:"CMTR_TEXT_VERBOSITY"`
	PreferCodex     bool    `yaml:"prefer_codex" envconfig:"CMTR_PREFER_CODEX"`
	BaseURL         string  `yaml:"base_url" envconfig:"OPENAI_BASE_URL"`
	Organization    string  `yaml:"organization" envconfig:"OPENAI_ORG"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Model:           "gpt-5.2",
		MaxDiffBytes:    12000,
		MaxPatchLines:   400,
		MaxLogEntries:   20,
		MaxLogPaths:     4,
		MaxLogBodyLines: 6,
		TimeoutSeconds:  60,
		ReasoningEffort: "none",
		TextVerbosity:   "low",
	}
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Overrides carries CLI flag values; nil fields leave the merged config
// untouched.
type Overrides struct {
	Model           *string
	MaxDiffBytes    *int
	MaxPatchLines   *int
	MaxLogEntries   *int
	MaxLogPaths     *int
	MaxLogBodyLines *int
	TimeoutSeconds  *float64
	ReasoningEffort *string
	TextVerbosity   *string
	PreferCodex     *bool
	BaseURL         *string
	Organization    *string
}

func (o Overrides) apply(cfg *Config) {
	if o.Model != nil {
		cfg.Model = *o.Model
	}
	if o.MaxDiffBytes != nil {
		cfg.MaxDiffBytes = *o.MaxDiffBytes
	}
	if o.MaxPatchLines != nil {
		cfg.MaxPatchLines = *o.MaxPatchLines
	}
	if o.MaxLogEntries != nil {
		cfg.MaxLogEntries = *o.MaxLogEntries
	}
	if o.MaxLogPaths != nil {
		cfg.MaxLogPaths = *o.MaxLogPaths
	}
	if o.MaxLogBodyLines != nil {
		cfg.MaxLogBodyLines = *o.MaxLogBodyLines
	}
	if o.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *o.TimeoutSeconds
	}
	if o.ReasoningEffort != nil {
		cfg.ReasoningEffort = *o.ReasoningEffort
	}
	if o.TextVerbosity != nil {
		cfg.TextVerbosity = *o.TextVerbosity
	}
	if o.PreferCodex != nil {
		cfg.PreferCodex = *o.PreferCodex
	}
	if o.BaseURL != nil {
		cfg.BaseURL = *o.BaseURL
	}
	if o.Organization != nil {
		cfg.Organization = *o.Organization
	}
}

// ConfigDir returns the platform-appropriate config directory for cmtr.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cmtr"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "cmtr"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "cmtr"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "cmtr"), nil
	default:
		return filepath.Join(home, ".config", "cmtr"), nil
	}
}

// GlobalPath returns the full path of the global config file.
func GlobalPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// repoConfigName is the per-repository config file at the repo root.
const repoConfigName = "cmtr.yaml"

// Load builds the effective config by merging, lowest precedence first:
// defaults, global file, repo file, .env, environment, flag overrides.
func Load(repoRoot string, overrides Overrides) (Config, error) {
	cfg := Default()

	globalPath, err := GlobalPath()
	if err != nil {
		return Config{}, err
	}
	if err := applyYAMLFile(globalPath, &cfg); err != nil {
		return Config{}, err
	}
	if repoRoot != "" {
		if err := applyYAMLFile(filepath.Join(repoRoot, repoConfigName), &cfg); err != nil {
			return Config{}, err
		}
		if err := LoadDotEnv(filepath.Join(repoRoot, ".env")); err != nil {
			return Config{}, err
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	overrides.apply(&cfg)
	return cfg, nil
}

// applyYAMLFile overlays path onto cfg. A missing file is not an error.
func applyYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// knownKeys are the settable global config file keys, matching yaml tags.
var knownKeys = map[string]struct{}{
	"model":              {},
	"max_diff_bytes":     {},
	"max_patch_lines":    {},
	"max_log_entries":    {},
	"max_log_paths":      {},
	"max_log_body_lines": {},
	"timeout_seconds":    {},
	"reasoning_effort":   {},
	"text_verbosity":     {},
	"prefer_codex":       {},
	"base_url":           {},
	"organization":       {},
}

// IsKnownKey reports whether key is a valid config file key.
func IsKnownKey(key string) bool {
	_, ok := knownKeys[key]
	return ok
}

// KnownKeys returns all config keys in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for key := range knownKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ReadGlobal returns the raw global config file contents as a map. A missing
// file yields an empty map.
func ReadGlobal() (map[string]any, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return values, nil
}

// WriteGlobal replaces the global config file with the given values.
func WriteGlobal(values map[string]any) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// SetGlobal sets one key in the global config file, coercing the value to
// the key's type.
func SetGlobal(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key: %s", key)
	}
	coerced, err := CoerceValue(key, value)
	if err != nil {
		return err
	}
	values, err := ReadGlobal()
	if err != nil {
		return err
	}
	values[key] = coerced
	return WriteGlobal(values)
}

// UnsetGlobal removes one key from the global config file.
func UnsetGlobal(key string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key: %s", key)
	}
	values, err := ReadGlobal()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return WriteGlobal(values)
}

// CoerceValue converts a string value to the type the key expects.
func CoerceValue(key, value string) (any, error) {
	switch key {
	case "max_diff_bytes", "max_patch_lines", "max_log_entries", "max_log_paths", "max_log_body_lines":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		return n, nil
	case "timeout_seconds":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("timeout_seconds must be a number")
		}
		return f, nil
	case "prefer_codex":
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		}
		return nil, fmt.Errorf("prefer_codex must be a boolean")
	default:
		return value, nil
	}
}

// EffectiveValues returns the merged config as a map keyed by config file
// key names; callers sort the keys for display.
func EffectiveValues(cfg Config) map[string]any {
	return map[string]any{
		"model":              cfg.Model,
		"max_diff_bytes":     cfg.MaxDiffBytes,
		"max_patch_lines":    cfg.MaxPatchLines,
		"max_log_entries":    cfg.MaxLogEntries,
		"max_log_paths":      cfg.MaxLogPaths,
		"max_log_body_lines": cfg.MaxLogBodyLines,
		"timeout_seconds":    cfg.TimeoutSeconds,
		"reasoning_effort":   cfg.ReasoningEffort,
		"text_verbosity":     cfg.TextVerbosity,
		"prefer_codex":       cfg.PreferCodex,
		"base_url":           cfg.BaseURL,
		"organization":       cfg.Organization,
	}
}
