package md2note

import (
	"context"
	"time"
)

// Key is a keyboard command understood by the editor.
type Key int

// Keyboard commands.
const (
	KeyEnter       Key = iota + 1
	KeyTab             // leaves the title field
	KeyEnd             // end of the current line
	KeyDocumentEnd     // Ctrl+End
	KeyLineBreak       // Shift+Enter, soft break inside a paragraph
	KeySave            // Ctrl+S (Cmd+S on macOS)
)

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyEnd:
		return "End"
	case KeyDocumentEnd:
		return "Ctrl+End"
	case KeyLineBreak:
		return "Shift+Enter"
	case KeySave:
		return "Ctrl+S"
	default:
		return "Key(?)"
	}
}

// element abstracts a DOM element handle to allow testing without a browser.
type element interface {
	Visible(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	// Fill replaces the element's value with text.
	Fill(ctx context.Context, text string) error
	SetFiles(ctx context.Context, paths []string) error
}

// page abstracts the single browsing page a session drives.
type page interface {
	Navigate(ctx context.Context, url string) error
	URL(ctx context.Context) (string, error)
	// Find waits until an element matching c exists or ctx is done.
	Find(ctx context.Context, c Candidate) (element, error)
	// FindAll returns the elements currently matching css, without waiting.
	FindAll(ctx context.Context, css string) ([]element, error)
	// Type inserts text at the cursor as one input event.
	Type(ctx context.Context, text string) error
	// Keys sends text one key event per character, so editor input rules fire.
	Keys(ctx context.Context, text string) error
	Press(ctx context.Context, k Key) error
	// Eval runs a JS function expression and decodes its result into out.
	// Promises are awaited. out may be nil.
	Eval(ctx context.Context, js string, out any, args ...any) error
	// AddInitScript runs js in every new document before page scripts.
	AddInitScript(js string) error
	Close() error
}

// browser abstracts the browser process and its cookie jar.
type browser interface {
	Page(ctx context.Context) (page, error)
	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookies(ctx context.Context, cookies []Cookie) error
	Close() error
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
