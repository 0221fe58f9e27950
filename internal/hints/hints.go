// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-md2note/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserLaunch returns hints for browser launch errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserLaunch() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" && os.Getenv("MD2NOTE_BROWSER_BIN") == "" {
		hints = append(hints, "set MD2NOTE_BROWSER_BIN to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForAuthTimeout explains how to complete the interactive login.
// Headless runs cannot show the login window, so that case gets its own hint.
func ForAuthTimeout(headless bool) string {
	if headless {
		return format("run 'md2note login' without --headless once to store credentials")
	}
	return format("finish logging in within the browser window, or raise --login-timeout")
}

// ForElementNotFound returns a hint for an editor element that never resolved.
func ForElementNotFound(target string) string {
	if target == "" {
		return format("the editor markup may have changed; override selectors in the config file")
	}
	return format("the editor markup may have changed; override editor.selectors." + target + " in the config file")
}

// ForCredentialStore returns a hint for unreadable or unwritable credential files.
func ForCredentialStore(path string) string {
	if path == "" {
		return format("check the credential store directory is writable")
	}
	return format("check " + path + " is writable, or delete it to log in again")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2note/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-md2note") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForArticleNotFound returns a hint about the expected input layout.
func ForArticleNotFound() string {
	return format("pass a .md file, or a directory containing article.md")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
