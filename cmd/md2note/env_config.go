package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-md2note/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string        // MD2NOTE_CONFIG: config file name or path
	Credentials  string        // MD2NOTE_CREDENTIALS: authentication state file
	Headless     *bool         // MD2NOTE_HEADLESS: true/false
	BrowserBin   string        // MD2NOTE_BROWSER_BIN: Chrome binary
	LoginTimeout time.Duration // MD2NOTE_LOGIN_TIMEOUT: manual login window
	LogLevel     string        // MD2NOTE_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid MD2NOTE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2NOTE_CONFIG":        true,
	"MD2NOTE_CREDENTIALS":   true,
	"MD2NOTE_HEADLESS":      true,
	"MD2NOTE_BROWSER_BIN":   true,
	"MD2NOTE_LOGIN_TIMEOUT": true,
	"MD2NOTE_LOG_LEVEL":     true,
	"MD2NOTE_CONTAINER":     true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("MD2NOTE_CONFIG"),
		Credentials: os.Getenv("MD2NOTE_CREDENTIALS"),
		BrowserBin:  os.Getenv("MD2NOTE_BROWSER_BIN"),
		LogLevel:    os.Getenv("MD2NOTE_LOG_LEVEL"),
	}

	if v := os.Getenv("MD2NOTE_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = &b
		}
	}

	if v := os.Getenv("MD2NOTE_LOGIN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.LoginTimeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MD2NOTE_* variables.
// Helps catch typos like MD2NOTE_HEADLES.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MD2NOTE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This gives: CLI flags > config file > env vars > defaults
// (CLI flags are applied later via mergeSessionFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Credentials != "" && cfg.Session.CredentialStore == "" {
		cfg.Session.CredentialStore = env.Credentials
	}
	if env.Headless != nil && cfg.Session.Headless == nil {
		v := *env.Headless
		cfg.Session.Headless = &v
	}
	if env.BrowserBin != "" && cfg.Session.BrowserBin == "" {
		cfg.Session.BrowserBin = env.BrowserBin
	}
	if env.LoginTimeout > 0 && cfg.Session.LoginTimeout == "" {
		cfg.Session.LoginTimeout = env.LoginTimeout.String()
	}
	if env.LogLevel != "" && cfg.Log.Level == "" {
		cfg.Log.Level = env.LogLevel
	}
}
