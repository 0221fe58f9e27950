package main

import (
	"errors"
	"os"

	md2note "github.com/alnah/go-md2note"
	"github.com/alnah/go-md2note/internal/config"
	"github.com/alnah/go-md2note/internal/markdown"
)

// Exit codes for md2note CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Draft composed (possibly with warnings)
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser launch, navigation, editor surface
	ExitAuth    = 5 // Login not completed, credentials unusable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Authentication errors (exit 5)
	if errors.Is(err, md2note.ErrAuthTimeout) ||
		errors.Is(err, md2note.ErrAuthState) {
		return ExitAuth
	}

	// Browser errors (exit 4)
	if errors.Is(err, md2note.ErrBrowserLaunch) ||
		errors.Is(err, md2note.ErrNavigation) ||
		errors.Is(err, md2note.ErrElementNotFound) ||
		errors.Is(err, md2note.ErrSessionClosed) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2note.ErrInvalidIntent) ||
		errors.Is(err, md2note.ErrInvalidBlock) ||
		errors.Is(err, markdown.ErrNotMarkdown) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, markdown.ErrArticleNotFound) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
