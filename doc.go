// Package md2note composes drafts on note.com by driving its web editor
// with headless or headed Chrome.
//
// The remote editor has no API and its markup is not a stable contract, so
// every UI element is located through an ordered SelectorChain, image
// uploads are confirmed by polling the document, and anything short of a
// missing editor is recorded on the Result instead of aborting the run.
//
// # Quick Start
//
// Publish opens a browser, logs in (reusing stored credentials), composes
// the document and closes the browser:
//
//	res, err := md2note.Publish(ctx, md2note.SessionConfig{Stealth: true},
//	    md2note.Document{
//	        Title: "Hello",
//	        Blocks: []md2note.ContentBlock{
//	            md2note.Heading{Level: 2, Text: "Intro"},
//	            md2note.Paragraph{Text: "First line\nsecond line"},
//	            md2note.Image{Path: "images/cover.png"},
//	        },
//	    }, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range res.Warnings {
//	    log.Println(w)
//	}
//
// # Sessions
//
// For finer control, manage the Session yourself. Close is idempotent and
// must run on every path:
//
//	s, err := md2note.Open(ctx, cfg, md2note.WithSessionLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Authenticate(ctx); err != nil {
//	    return err
//	}
//	res, err := md2note.NewComposer(md2note.WithLogger(logger)).Compose(ctx, s, doc)
//
// Authenticate first checks for an existing login for a few seconds. When
// none is found it waits, up to SessionConfig.LoginTimeout, for a human to
// log in through the browser window, so the first run must be headed.
// The cookies and local storage are then written to
// SessionConfig.CredentialStorePath.
//
// # Failure Model
//
// Fatal errors (ErrBrowserLaunch, ErrAuthTimeout, ErrNavigation, and
// ErrElementNotFound for the content surface) end the run. Image uploads
// (ErrUploadFailed, ErrUploadUncertain), the title field and the save
// control degrade: the run continues and Result.Degraded reports it.
//
// # Browser Requirements
//
// The go-rod library automatically downloads a managed Chromium instance on
// first run (~/.cache/rod/browser/). For containers and CI environments, set
// ROD_NO_SANDBOX=1 to disable the Chrome sandbox. Use ROD_BROWSER_BIN to
// specify a custom Chrome binary.
package md2note
