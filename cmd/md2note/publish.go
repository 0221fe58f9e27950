package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	md2note "github.com/alnah/go-md2note"
	"github.com/alnah/go-md2note/internal/config"
	"github.com/alnah/go-md2note/internal/fileutil"
	"github.com/alnah/go-md2note/internal/hints"
	"github.com/alnah/go-md2note/internal/markdown"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrUsage        = errors.New("invalid usage")
)

// runPublish composes one article into a new draft.
func runPublish(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parsePublishFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	rc, err := resolveRunConfig(&flags.common, &flags.session, loadEnvConfig())
	if err != nil {
		return withHint(err, rc)
	}
	log := newLogger(rc.cfg.Log, env.Stderr)

	if flags.loginOnly {
		return withHint(login(ctx, rc, env, log), rc)
	}

	doc, err := loadDocument(positional, flags.title, flags.status)
	if err != nil {
		return withHint(err, rc)
	}
	log.WithField("blocks", len(doc.Blocks)).Debug("article parsed")

	composer := md2note.NewComposer(
		md2note.WithTargets(rc.targets),
		md2note.WithTiming(rc.timing),
		md2note.WithLogger(log),
	)

	start := env.Now()
	res, err := env.Publish(ctx, rc.session, doc, composer)
	if res != nil {
		printReport(env.Stdout, res, env.Now().Sub(start), flags.common.quiet)
	}
	return withHint(err, rc)
}

// runLogin authenticates and stores credentials without composing.
func runLogin(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseLoginFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: login takes no arguments, got %q", ErrUsage, positional[0])
	}

	rc, err := resolveRunConfig(&flags.common, &flags.session, loadEnvConfig())
	if err != nil {
		return withHint(err, rc)
	}
	log := newLogger(rc.cfg.Log, env.Stderr)

	return withHint(login(ctx, rc, env, log), rc)
}

func login(ctx context.Context, rc *runConfig, env *Environment, log logrus.FieldLogger) error {
	err := env.Login(ctx, rc.session,
		md2note.WithSessionTargets(rc.targets),
		md2note.WithSessionTiming(rc.timing),
		md2note.WithSessionLogger(log),
	)
	if err != nil {
		return err
	}
	printLoginReport(env.Stdout, credentialPath(rc))
	return nil
}

// loadDocument resolves the input, parses it and picks the title.
func loadDocument(positional []string, title, status string) (md2note.Document, error) {
	switch len(positional) {
	case 0:
		return md2note.Document{}, ErrNoInput
	case 1:
	default:
		return md2note.Document{}, fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}

	intent, err := md2note.ParseIntent(status)
	if err != nil {
		return md2note.Document{}, err
	}

	path, err := markdown.ResolveInput(positional[0])
	if err != nil {
		return md2note.Document{}, err
	}

	blocks, err := markdown.New().ParseFile(path)
	if err != nil {
		return md2note.Document{}, fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}

	docTitle, blocks := markdown.ExtractTitle(blocks, title)
	return md2note.Document{Title: docTitle, Blocks: blocks, Intent: intent}, nil
}

// withHint appends an actionable hint for known failures.
func withHint(err error, rc *runConfig) error {
	if err == nil {
		return nil
	}
	hint := hintFor(err, rc)
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

func hintFor(err error, rc *runConfig) string {
	switch {
	case errors.Is(err, md2note.ErrBrowserLaunch):
		return hints.ForBrowserLaunch()
	case errors.Is(err, md2note.ErrAuthTimeout):
		return hints.ForAuthTimeout(rc != nil && rc.session.Headless)
	case errors.Is(err, md2note.ErrAuthState):
		return hints.ForCredentialStore(credentialPath(rc))
	case errors.Is(err, md2note.ErrElementNotFound):
		return hints.ForElementNotFound("content")
	case errors.Is(err, config.ErrConfigNotFound):
		if rc == nil || fileutil.IsFilePath(rc.configName) {
			return hints.ForConfigNotFound(nil)
		}
		return hints.ForConfigNotFound(config.SearchPaths(rc.configName))
	case errors.Is(err, markdown.ErrArticleNotFound), errors.Is(err, markdown.ErrNotMarkdown):
		return hints.ForArticleNotFound()
	default:
		return ""
	}
}

func credentialPath(rc *runConfig) string {
	if rc == nil {
		return ""
	}
	if rc.session.CredentialStorePath != "" {
		return rc.session.CredentialStorePath
	}
	return fileutil.DefaultCredentialStorePath()
}
