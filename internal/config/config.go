// Package config loads the YAML configuration of the md2note CLI.
//
// Every field is optional. Empty strings and nil pointers mean "use the
// engine default", so a config file only lists what it overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-md2note/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxURLLength      = 2048 // Browser limit
	MaxSelectorLength = 500  // One CSS selector
	MaxSelectors      = 20   // Candidates per chain
	MaxDurationLength = 20   // "1m30s", "500ms"
	MaxMarkerLength   = 200  // URL fragment
)

// Config holds all configuration for a composition run.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Editor  EditorConfig  `yaml:"editor"`
	Timing  TimingConfig  `yaml:"timing"`
	Log     LogConfig     `yaml:"log"`
}

// SessionConfig defines browser and credential options.
type SessionConfig struct {
	CredentialStore string `yaml:"credentialStore"` // Empty = per-user default
	Headless        *bool  `yaml:"headless"`        // Nil = headed (login needs a window)
	BrowserBin      string `yaml:"browserBin"`      // Empty = auto-detect / download
	NoSandbox       bool   `yaml:"noSandbox"`
	Stealth         *bool  `yaml:"stealth"`       // Nil = on
	LoginTimeout    string `yaml:"loginTimeout"`  // e.g. "5m"
	DetectTimeout   string `yaml:"detectTimeout"` // e.g. "3s"
}

// EditorConfig describes the remote editor surface.
type EditorConfig struct {
	LoginURL        string          `yaml:"loginURL"`
	NewDraftURL     string          `yaml:"newDraftURL"`
	LoginMarker     string          `yaml:"loginMarker"`   // URL fragment present while on the login page
	ImageSelector   string          `yaml:"imageSelector"` // Counts images inside the editor
	SelectorTimeout string          `yaml:"selectorTimeout"`
	Selectors       SelectorsConfig `yaml:"selectors"`
}

// SelectorsConfig replaces built-in selector chains. A non-empty list
// replaces the whole chain; order is priority.
type SelectorsConfig struct {
	LoginDetect []string `yaml:"loginDetect"`
	Title       []string `yaml:"title"`
	Content     []string `yaml:"content"`
	FileInput   []string `yaml:"fileInput"`
	Save        []string `yaml:"save"`
}

// TimingConfig overrides pacing and polling.
type TimingConfig struct {
	EditorSettle  string `yaml:"editorSettle"`
	BlockDelay    string `yaml:"blockDelay"`
	KeyDelay      string `yaml:"keyDelay"`
	UploadWait    string `yaml:"uploadWait"`
	PollInterval  string `yaml:"pollInterval"`
	StableSamples int    `yaml:"stableSamples"`
	MaxPolls      int    `yaml:"maxPolls"`
	SaveSettle    string `yaml:"saveSettle"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns an empty configuration: every value falls back to
// the engine defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field lengths, durations, URLs and enumerations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("session.credentialStore", c.Session.CredentialStore, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("session.browserBin", c.Session.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if err := validateDuration("session.loginTimeout", c.Session.LoginTimeout); err != nil {
		return err
	}
	if err := validateDuration("session.detectTimeout", c.Session.DetectTimeout); err != nil {
		return err
	}

	if err := validateURL("editor.loginURL", c.Editor.LoginURL); err != nil {
		return err
	}
	if err := validateURL("editor.newDraftURL", c.Editor.NewDraftURL); err != nil {
		return err
	}
	if err := validateFieldLength("editor.loginMarker", c.Editor.LoginMarker, MaxMarkerLength); err != nil {
		return err
	}
	if err := validateFieldLength("editor.imageSelector", c.Editor.ImageSelector, MaxSelectorLength); err != nil {
		return err
	}
	if err := validateDuration("editor.selectorTimeout", c.Editor.SelectorTimeout); err != nil {
		return err
	}
	chains := []struct {
		name  string
		items []string
	}{
		{"loginDetect", c.Editor.Selectors.LoginDetect},
		{"title", c.Editor.Selectors.Title},
		{"content", c.Editor.Selectors.Content},
		{"fileInput", c.Editor.Selectors.FileInput},
		{"save", c.Editor.Selectors.Save},
	}
	for _, ch := range chains {
		if err := validateSelectors("editor.selectors."+ch.name, ch.items); err != nil {
			return err
		}
	}

	durations := []struct {
		name  string
		value string
	}{
		{"timing.editorSettle", c.Timing.EditorSettle},
		{"timing.blockDelay", c.Timing.BlockDelay},
		{"timing.keyDelay", c.Timing.KeyDelay},
		{"timing.uploadWait", c.Timing.UploadWait},
		{"timing.pollInterval", c.Timing.PollInterval},
		{"timing.saveSettle", c.Timing.SaveSettle},
	}
	for _, d := range durations {
		if err := validateDuration(d.name, d.value); err != nil {
			return err
		}
	}
	if c.Timing.StableSamples < 0 || c.Timing.StableSamples > 100 {
		return fmt.Errorf("%w: timing.stableSamples must be between 0 and 100, got %d", ErrInvalidValue, c.Timing.StableSamples)
	}
	if c.Timing.MaxPolls < 0 || c.Timing.MaxPolls > 1000 {
		return fmt.Errorf("%w: timing.maxPolls must be between 0 and 1000, got %d", ErrInvalidValue, c.Timing.MaxPolls)
	}
	if c.Timing.StableSamples > 0 && c.Timing.MaxPolls > 0 && c.Timing.StableSamples > c.Timing.MaxPolls {
		return fmt.Errorf("%w: timing.stableSamples (%d) exceeds timing.maxPolls (%d)", ErrInvalidValue, c.Timing.StableSamples, c.Timing.MaxPolls)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

// Duration parses an optional duration field. Empty yields zero.
// Values are assumed to have passed Validate.
func Duration(value string) time.Duration {
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxDurationLength); err != nil {
		return err
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, fieldName)
	}
	return nil
}

func validateURL(fieldName, value string) error {
	if value == "" {
		return nil
	}
	if err := validateFieldLength(fieldName, value, MaxURLLength); err != nil {
		return err
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidValue, fieldName, value)
	}
	return nil
}

func validateSelectors(fieldName string, items []string) error {
	if len(items) > MaxSelectors {
		return fmt.Errorf("%w: %s has %d selectors (max %d)", ErrInvalidValue, fieldName, len(items), MaxSelectors)
	}
	for i, s := range items {
		name := fmt.Sprintf("%s[%d]", fieldName, i)
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidValue, name)
		}
		if err := validateFieldLength(name, s, MaxSelectorLength); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := unmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	for _, ext := range extensions {
		if p, err := fileutil.UserConfigPath(name + ext); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory first, then ~/.config/go-md2note/.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
