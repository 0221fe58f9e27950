package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-md2note/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasFlag(os.Args[1:], "-v", "--verbose") {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	warnUnknownEnvVars(env.Stderr)

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error
	switch {
	case cmd == "publish":
		err = runPublish(ctx, rest, env)
	case cmd == "login":
		err = runLogin(ctx, rest, env)
	case cmd == "doctor":
		return runDoctorCmd(rest, env)
	case cmd == "completion":
		err = runCompletion(rest, env)
	case cmd == "version" || cmd == "--version":
		fmt.Fprintf(env.Stdout, "md2note %s\n", Version)
		return ExitSuccess
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		runHelp(rest, env)
		return ExitSuccess
	case looksLikeInput(cmd):
		err = runPublish(ctx, args[1:], env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// looksLikeInput reports whether a bare first argument is an article
// (or a flag), so "md2note post.md" works without "publish".
func looksLikeInput(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return true
	}
	lower := strings.ToLower(arg)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		return true
	}
	return fileutil.DirExists(arg)
}

func hasFlag(args []string, names ...string) bool {
	for _, a := range args {
		for _, n := range names {
			if a == n {
				return true
			}
		}
	}
	return false
}
