package md2note

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures a Composer.
type Option func(*Composer)

// WithTargets replaces the remote endpoints and selector chains.
func WithTargets(t Targets) Option {
	return func(c *Composer) {
		c.targets = t
	}
}

// WithTiming overrides pacing. Zero fields keep their defaults.
func WithTiming(t Timing) Option {
	return func(c *Composer) {
		c.timing = t.merge()
	}
}

// WithLogger sets the logger. Runs add run, block and kind fields.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Composer) {
		if l != nil {
			c.log = l
		}
	}
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the session logger.
func WithSessionLogger(l logrus.FieldLogger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSessionTargets sets the login surface and login-detection chain.
func WithSessionTargets(t Targets) SessionOption {
	return func(s *Session) {
		s.targets = t
	}
}

// WithSessionTiming overrides login polling and navigation bounds.
func WithSessionTiming(t Timing) SessionOption {
	return func(s *Session) {
		s.timing = t.merge()
	}
}

// withResolvedTiming sets timing that has already been merged.
func withResolvedTiming(t Timing) SessionOption {
	return func(s *Session) {
		s.timing = t
	}
}

// withLauncher swaps the browser factory. Tests use it to inject fakes.
func withLauncher(fn launchFunc) SessionOption {
	return func(s *Session) {
		s.launch = fn
	}
}

// discardLogger is the default: library users opt in to output.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
