package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	md2note "github.com/alnah/go-md2note"
	"github.com/alnah/go-md2note/internal/config"
)

// runConfig is the fully layered configuration of one command.
type runConfig struct {
	cfg        *config.Config
	configName string
	session    md2note.SessionConfig
	targets    md2note.Targets
	timing     md2note.Timing
}

// resolveRunConfig layers defaults < environment < config file < flags.
// Environment values only fill fields the config file leaves unset. The
// config file comes from --config, then MD2NOTE_CONFIG.
func resolveRunConfig(common *commonFlags, session *sessionFlags, env *envConfig) (*runConfig, error) {
	name := common.config
	if name == "" {
		name = env.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return &runConfig{configName: name}, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	mergeCommonFlags(common, cfg)
	mergeSessionFlags(session, cfg)

	// Flags and env bypass LoadConfig, so validate the merged result.
	if err := cfg.Validate(); err != nil {
		return &runConfig{configName: name}, err
	}

	return &runConfig{
		cfg:        cfg,
		configName: name,
		session:    sessionConfigFrom(cfg),
		targets:    targetsFrom(cfg),
		timing:     timingFrom(cfg),
	}, nil
}

// mergeCommonFlags merges logging flags into config. CLI values win.
func mergeCommonFlags(f *commonFlags, cfg *config.Config) {
	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "warn"
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

// mergeSessionFlags merges browser flags into config. CLI values win.
func mergeSessionFlags(f *sessionFlags, cfg *config.Config) {
	if f.credentials != "" {
		cfg.Session.CredentialStore = f.credentials
	}
	if f.headlessSet {
		v := f.headless
		cfg.Session.Headless = &v
	}
	if f.browserBin != "" {
		cfg.Session.BrowserBin = f.browserBin
	}
	if f.noSandbox {
		cfg.Session.NoSandbox = true
	}
	if f.noStealth {
		off := false
		cfg.Session.Stealth = &off
	}
	if f.loginTimeout != "" {
		cfg.Session.LoginTimeout = f.loginTimeout
	}
}

// sessionConfigFrom maps the session section onto the engine's SessionConfig.
func sessionConfigFrom(cfg *config.Config) md2note.SessionConfig {
	s := cfg.Session
	return md2note.SessionConfig{
		CredentialStorePath: s.CredentialStore,
		Headless:            s.Headless != nil && *s.Headless,
		BrowserBin:          s.BrowserBin,
		NoSandbox:           s.NoSandbox,
		Stealth:             s.Stealth == nil || *s.Stealth,
		LoginTimeout:        config.Duration(s.LoginTimeout),
		DetectTimeout:       config.Duration(s.DetectTimeout),
	}
}

// targetsFrom overlays the editor section on the built-in targets.
// A non-empty selector list replaces the whole chain.
func targetsFrom(cfg *config.Config) md2note.Targets {
	e := cfg.Editor
	t := md2note.DefaultTargets()

	if e.LoginURL != "" {
		t.LoginURL = e.LoginURL
	}
	if e.NewDraftURL != "" {
		t.NewDraftURL = e.NewDraftURL
	}
	if e.LoginMarker != "" {
		t.LoginMarker = e.LoginMarker
	}
	if e.ImageSelector != "" {
		t.ImageSelector = e.ImageSelector
	}

	replace := func(chain md2note.SelectorChain, selectors []string) md2note.SelectorChain {
		if len(selectors) == 0 {
			return chain
		}
		return md2note.NewChain(chain.Name, chain.Timeout, selectors...)
	}
	t.LoginDetect = replace(t.LoginDetect, e.Selectors.LoginDetect)
	t.Title = replace(t.Title, e.Selectors.Title)
	t.Content = replace(t.Content, e.Selectors.Content)
	t.FileInput = replace(t.FileInput, e.Selectors.FileInput)
	t.Save = replace(t.Save, e.Selectors.Save)

	return t.WithSelectorTimeout(config.Duration(e.SelectorTimeout))
}

// timingFrom maps the timing section. Unset fields keep the engine
// defaults; an explicit zero ("0s") disables that delay.
func timingFrom(cfg *config.Config) md2note.Timing {
	tc := cfg.Timing
	return md2note.Timing{
		EditorSettle:  delay(tc.EditorSettle),
		BlockDelay:    delay(tc.BlockDelay),
		KeyDelay:      delay(tc.KeyDelay),
		UploadWait:    delay(tc.UploadWait),
		PollInterval:  delay(tc.PollInterval),
		StableSamples: tc.StableSamples,
		MaxPolls:      tc.MaxPolls,
		SaveSettle:    delay(tc.SaveSettle),
	}
}

func delay(value string) time.Duration {
	if value == "" {
		return 0
	}
	if d := config.Duration(value); d > 0 {
		return d
	}
	return -1
}

// newLogger builds the run logger. Output goes to w (stderr) so stdout
// only carries the report.
func newLogger(cfg config.LogConfig, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
