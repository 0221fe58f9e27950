package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2note <command> [flags] [args]")
	fmt.Fprintln(w, "       md2note <article> [flags]      (same as publish)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  publish     Compose a Markdown article into a new note.com draft")
	fmt.Fprintln(w, "  login       Log in once and store credentials")
	fmt.Fprintln(w, "  doctor      Check browser and credential setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2note help <command>' for details on a specific command.")
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2note publish <article> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compose a Markdown article into a new note.com draft.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  article    Markdown file, or a directory containing article.md")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -t, --title <s>           Article title (\"\" = auto from H1)")
	fmt.Fprintln(w, "  -s, --status <s>          draft or publish (publish saves a draft)")
	fmt.Fprintln(w, "      --login-only          Log in and store credentials, then exit")
	fmt.Fprintln(w)
	printSessionUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printLoginUsage prints usage for the login command.
func printLoginUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2note login [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Open the login page, wait for a manual login and store credentials.")
	fmt.Fprintln(w, "Later runs reuse them without asking again.")
	fmt.Fprintln(w)
	printSessionUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --credentials <path>  Authentication state file")
	fmt.Fprintln(w, "      --headless            Run without a window (needs stored credentials)")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox (containers, CI)")
	fmt.Fprintln(w, "      --no-stealth          Disable automation fingerprint hiding")
	fmt.Fprintln(w, "      --login-timeout <d>   Manual login window (default 5m)")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "publish":
		printPublishUsage(env.Stdout)
	case "login":
		printLoginUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2note doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check browser, environment and credential store setup.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2note version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2note help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
