package main

// Notes:
// - exitCodeFor: we test every sentinel the CLI maps, plus wrapped errors
//   to verify the errors.Is chain.
// - Exit code constants: Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes below 126.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	md2note "github.com/alnah/go-md2note"
	"github.com/alnah/go-md2note/internal/config"
	"github.com/alnah/go-md2note/internal/markdown"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		{"auth timeout", md2note.ErrAuthTimeout, ExitAuth},
		{"auth state", md2note.ErrAuthState, ExitAuth},
		{"wrapped auth timeout", fmt.Errorf("login: %w", md2note.ErrAuthTimeout), ExitAuth},

		{"browser launch", md2note.ErrBrowserLaunch, ExitBrowser},
		{"navigation", md2note.ErrNavigation, ExitBrowser},
		{"content surface missing", md2note.ErrElementNotFound, ExitBrowser},
		{"session closed", md2note.ErrSessionClosed, ExitBrowser},

		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"article not found", markdown.ErrArticleNotFound, ExitIO},
		{"read markdown", ErrReadMarkdown, ExitIO},
		{"no input", ErrNoInput, ExitIO},

		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid value", config.ErrInvalidValue, ExitUsage},
		{"invalid intent", md2note.ErrInvalidIntent, ExitUsage},
		{"invalid block", md2note.ErrInvalidBlock, ExitUsage},
		{"not markdown", markdown.ErrNotMarkdown, ExitUsage},
		{"usage", ErrUsage, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},

		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestExitCodeFor_AuthWinsOverIO(t *testing.T) {
	t.Parallel()

	// A credential write failure often wraps a permission error.
	err := fmt.Errorf("%w: %w", md2note.ErrAuthState, os.ErrPermission)
	assert.Equal(t, ExitAuth, exitCodeFor(err))
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitBrowser, ExitAuth}
	seen := map[int]bool{}
	for _, c := range codes {
		assert.Less(t, c, 126)
		assert.False(t, seen[c], "duplicate exit code %d", c)
		seen[c] = true
	}
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitGeneral)
	assert.Equal(t, 2, ExitUsage)
}
