package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// sessionFlags holds browser and credential flags.
type sessionFlags struct {
	credentials  string
	headless     bool
	headlessSet  bool // --headless or --headless=false given explicitly
	browserBin   string
	noSandbox    bool
	noStealth    bool
	loginTimeout string
}

// publishFlags holds all flags for the publish command.
type publishFlags struct {
	common    commonFlags
	session   sessionFlags
	title     string
	status    string
	loginOnly bool
}

// loginFlags holds all flags for the login command.
type loginFlags struct {
	common  commonFlags
	session sessionFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addSessionFlags adds browser session flags to a FlagSet.
func addSessionFlags(fs *flag.FlagSet, f *sessionFlags) {
	fs.StringVar(&f.credentials, "credentials", "", "authentication state file")
	fs.BoolVar(&f.headless, "headless", false, "run the browser without a window")
	fs.StringVar(&f.browserBin, "browser-bin", "", "Chrome/Chromium binary")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox (containers, CI)")
	fs.BoolVar(&f.noStealth, "no-stealth", false, "disable automation fingerprint hiding")
	fs.StringVar(&f.loginTimeout, "login-timeout", "", "how long to wait for a manual login (e.g., 5m)")
}

// addPublishFlags adds document flags to a FlagSet.
func addPublishFlags(fs *flag.FlagSet, f *publishFlags) {
	fs.StringVarP(&f.title, "title", "t", "", "article title (\"\" = auto from H1)")
	fs.StringVarP(&f.status, "status", "s", "draft", "draft or publish (publish saves a draft)")
	fs.BoolVar(&f.loginOnly, "login-only", false, "log in and store credentials, then exit")
}

// buildPublishFlagSet registers every publish flag into a new FlagSet.
func buildPublishFlagSet(f *publishFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	addPublishFlags(fs, f)
	addSessionFlags(fs, &f.session)
	addCommonFlags(fs, &f.common)
	return fs
}

// buildLoginFlagSet registers every login flag into a new FlagSet.
func buildLoginFlagSet(f *loginFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	addSessionFlags(fs, &f.session)
	addCommonFlags(fs, &f.common)
	return fs
}

// parsePublishFlags parses publish command flags and returns positional args.
func parsePublishFlags(args []string, stderr io.Writer) (*publishFlags, []string, error) {
	f := &publishFlags{}
	fs := buildPublishFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printPublishUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.session.headlessSet = fs.Changed("headless")

	return f, fs.Args(), nil
}

// parseLoginFlags parses login command flags.
func parseLoginFlags(args []string, stderr io.Writer) (*loginFlags, []string, error) {
	f := &loginFlags{}
	fs := buildLoginFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printLoginUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.session.headlessSet = fs.Changed("headless")

	return f, fs.Args(), nil
}
