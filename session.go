package md2note

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnah/go-md2note/internal/fileutil"
)

// Session bounds.
const (
	DefaultLoginTimeout  = 5 * time.Minute
	DefaultDetectTimeout = 3 * time.Second
	minLoginPoll         = 10 * time.Millisecond
)

// SessionConfig is read-only for the lifetime of a Session.
type SessionConfig struct {
	// CredentialStorePath holds the authentication state. Empty uses
	// fileutil.DefaultCredentialStorePath.
	CredentialStorePath string
	Headless            bool
	// BrowserBin overrides the browser binary. Empty falls back to
	// ROD_BROWSER_BIN, then to rod's auto-download.
	BrowserBin string
	NoSandbox  bool
	// Stealth hides common automation fingerprints.
	Stealth bool
	// LoginTimeout bounds the wait for a human to log in.
	LoginTimeout time.Duration
	// DetectTimeout bounds the already-authenticated check.
	DetectTimeout time.Duration
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.CredentialStorePath == "" {
		c.CredentialStorePath = fileutil.DefaultCredentialStorePath()
	}
	if c.LoginTimeout <= 0 {
		c.LoginTimeout = DefaultLoginTimeout
	}
	if c.DetectTimeout <= 0 {
		c.DetectTimeout = DefaultDetectTimeout
	}
	return c
}

// launchFunc starts a browser for cfg.
type launchFunc func(ctx context.Context, cfg SessionConfig) (browser, error)

// Session owns one browser process and its single page. It is not safe
// for concurrent use except for Close.
type Session struct {
	cfg     SessionConfig
	targets Targets
	timing  Timing
	log     logrus.FieldLogger
	launch  launchFunc

	browser browser
	page    page
	seeded  bool

	mu     sync.Mutex
	closed bool
}

// Open launches a browser. When an authentication state exists at the
// credential store path the browser is seeded with it; an unreadable
// state is logged and ignored.
func Open(ctx context.Context, cfg SessionConfig, opts ...SessionOption) (*Session, error) {
	s := &Session{
		cfg:     cfg.withDefaults(),
		targets: DefaultTargets(),
		timing:  DefaultTiming(),
		log:     discardLogger(),
		launch:  launchRod,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := LoadAuthState(s.cfg.CredentialStorePath)
	if err != nil {
		s.log.WithError(err).Warn("ignoring authentication state")
		state = nil
	}

	b, err := s.launch(ctx, s.cfg)
	if err != nil {
		if errors.Is(err, ErrBrowserLaunch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	s.browser = b

	if state != nil && len(state.Cookies) > 0 {
		if err := b.SetCookies(ctx, state.Cookies); err != nil {
			s.log.WithError(err).Warn("could not restore cookies")
		} else {
			s.seeded = true
		}
	}

	p, err := b.Page(ctx)
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("%w: creating page: %v", ErrBrowserLaunch, err)
	}
	s.page = p

	if script, err := state.seedScript(); err != nil {
		s.log.WithError(err).Warn("could not restore local storage")
	} else if script != "" {
		if err := p.AddInitScript(script); err != nil {
			s.log.WithError(err).Warn("could not restore local storage")
		} else {
			s.seeded = true
		}
	}

	s.log.WithFields(logrus.Fields{
		"headless": s.cfg.Headless,
		"seeded":   s.seeded,
	}).Info("browser ready")
	return s, nil
}

// Seeded reports whether stored authentication was applied at Open.
func (s *Session) Seeded() bool {
	return s.seeded
}

// CredentialStorePath is where Authenticate writes the state.
func (s *Session) CredentialStorePath() string {
	return s.cfg.CredentialStorePath
}

// livePage returns the page, or ErrSessionClosed.
func (s *Session) livePage() (page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.page == nil {
		return nil, ErrSessionClosed
	}
	return s.page, nil
}

// Authenticate ensures the browser is logged in. It navigates to the login
// surface and checks briefly for signs of an existing login. Otherwise it
// waits, up to the login timeout, for the URL to leave the login surface
// while a human logs in. On success the authentication state is written
// to the credential store. Failure to reach or leave the login surface
// returns ErrAuthTimeout; failure to write the state returns ErrAuthState.
func (s *Session) Authenticate(ctx context.Context) error {
	p, err := s.livePage()
	if err != nil {
		return err
	}

	if err := s.navigate(ctx, p, s.targets.LoginURL); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthTimeout, err)
	}

	if s.alreadyAuthenticated(ctx, p) {
		s.log.Info("already logged in")
		return s.persist(ctx, p)
	}

	s.log.WithField("timeout", s.cfg.LoginTimeout).Info("waiting for login in the browser window")
	if err := s.waitForLogin(ctx, p); err != nil {
		return err
	}
	if err := sleep(ctx, s.timing.PostLoginSettle); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthTimeout, err)
	}
	s.log.Info("login completed")
	return s.persist(ctx, p)
}

func (s *Session) navigate(ctx context.Context, p page, url string) error {
	if s.timing.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timing.NavigationTimeout)
		defer cancel()
	}
	return p.Navigate(ctx, url)
}

func (s *Session) alreadyAuthenticated(ctx context.Context, p page) bool {
	dctx, cancel := context.WithTimeout(ctx, s.cfg.DetectTimeout)
	defer cancel()
	_, c, err := resolve(dctx, p, s.targets.LoginDetect)
	if err != nil {
		s.log.WithError(err).Debug("no login signal")
		return false
	}
	s.log.WithField("selector", c.String()).Debug("login signal found")
	return true
}

// waitForLogin polls the page URL until it no longer contains the login
// marker.
func (s *Session) waitForLogin(ctx context.Context, p page) error {
	lctx, cancel := context.WithTimeout(ctx, s.cfg.LoginTimeout)
	defer cancel()

	poll := max(s.timing.LoginPoll, minLoginPoll)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		url, err := p.URL(lctx)
		if err == nil && url != "" && !strings.Contains(url, s.targets.LoginMarker) {
			return nil
		}
		select {
		case <-lctx.Done():
			return fmt.Errorf("%w: no login within %s: %v", ErrAuthTimeout, s.cfg.LoginTimeout, lctx.Err())
		case <-ticker.C:
		}
	}
}

// persist overwrites the credential store with the current cookies and
// the current origin's localStorage.
func (s *Session) persist(ctx context.Context, p page) error {
	cookies, err := s.browser.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading cookies: %v", ErrAuthState, err)
	}
	state := &AuthState{Cookies: cookies}

	var origin OriginStorage
	if err := p.Eval(ctx, jsReadStorage, &origin); err != nil {
		s.log.WithError(err).Warn("could not read local storage")
	} else if origin.Origin != "" && origin.Origin != "null" {
		state.Origins = []OriginStorage{origin}
	}

	if err := state.Save(s.cfg.CredentialStorePath); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"path":    s.cfg.CredentialStorePath,
		"cookies": len(cookies),
	}).Info("authentication saved")
	return nil
}

// Close releases the browser. It is safe to call more than once and after
// a failed Open or Authenticate.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	s.browser = nil
	s.page = nil
	return err
}
