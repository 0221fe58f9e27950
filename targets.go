package md2note

import "time"

// Targets describes the remote editor: navigation URLs and the selector
// chains for each UI element the engine drives. Values drift when the
// remote UI changes, so every field can be overridden.
type Targets struct {
	LoginURL    string
	NewDraftURL string
	// LoginMarker is a URL fragment present only on the login surface.
	LoginMarker string
	// ImageSelector counts images for upload confirmation.
	ImageSelector string

	LoginDetect SelectorChain
	Title       SelectorChain
	Content     SelectorChain
	FileInput   SelectorChain
	Save        SelectorChain
}

// Default remote endpoints.
const (
	DefaultLoginURL      = "https://note.com/login"
	DefaultNewDraftURL   = "https://note.com/notes/new"
	DefaultLoginMarker   = "/login"
	DefaultImageSelector = "img"
)

// DefaultTargets returns the built-in chains, most specific first.
func DefaultTargets() Targets {
	return Targets{
		LoginURL:      DefaultLoginURL,
		NewDraftURL:   DefaultNewDraftURL,
		LoginMarker:   DefaultLoginMarker,
		ImageSelector: DefaultImageSelector,

		LoginDetect: NewChain("login-detect", time.Second,
			".o-navbar__avatar",
			".user-menu",
			`[href*="/dashboard"]`,
		),
		Title: NewChain("title", DefaultSelectorTimeout,
			`textarea[placeholder="記事タイトル"]`,
			`textarea[placeholder*="タイトル"]`,
			`textarea[placeholder*="title" i]`,
			`textarea[spellcheck="true"]`,
		),
		Content: NewChain("content", DefaultSelectorTimeout,
			".ProseMirror",
			`[contenteditable="true"]`,
			".note-body",
			".editor-content",
			`[role="textbox"]`,
		),
		FileInput: NewChain("file-input", DefaultSelectorTimeout,
			`input[type="file"]`,
		),
		Save: NewChain("save", DefaultSelectorTimeout,
			`button:has-text("下書き保存")`,
			`button:has-text("保存")`,
			`button:has-text("Save")`,
			`button[aria-label*="保存"]`,
			`button[aria-label*="save" i]`,
			`[data-testid="save-button"]`,
			".save-button",
			`button[type="submit"]`,
		),
	}
}

// WithSelectorTimeout returns a copy with every chain except login
// detection using d per candidate. Login detection is bounded by
// SessionConfig.DetectTimeout instead.
func (t Targets) WithSelectorTimeout(d time.Duration) Targets {
	if d <= 0 {
		return t
	}
	t.Title.Timeout = d
	t.Content.Timeout = d
	t.FileInput.Timeout = d
	t.Save.Timeout = d
	return t
}

// Timing holds pacing delays and polling bounds.
type Timing struct {
	NavigationTimeout time.Duration
	LoginPoll         time.Duration // URL check interval while waiting for a human login
	PostLoginSettle   time.Duration
	EditorSettle      time.Duration // after opening a new draft
	BlockDelay        time.Duration // between blocks
	KeyDelay          time.Duration // after heading markers and cursor moves
	UploadWait        time.Duration // native strategy confirmation window
	PasteGrace        time.Duration // before the first stabilization sample
	PollInterval      time.Duration
	StableSamples     int
	MaxPolls          int
	SaveSettle        time.Duration
}

// DefaultTiming returns delays tuned against the live editor.
func DefaultTiming() Timing {
	return Timing{
		NavigationTimeout: 30 * time.Second,
		LoginPoll:         500 * time.Millisecond,
		PostLoginSettle:   2 * time.Second,
		EditorSettle:      2 * time.Second,
		BlockDelay:        500 * time.Millisecond,
		KeyDelay:          100 * time.Millisecond,
		UploadWait:        5 * time.Second,
		PasteGrace:        2 * time.Second,
		PollInterval:      time.Second,
		StableSamples:     3,
		MaxPolls:          15,
		SaveSettle:        3 * time.Second,
	}
}

// merge fills zero fields of t from DefaultTiming. Durations set to a
// negative value mean "no delay".
func (t Timing) merge() Timing {
	d := DefaultTiming()
	pick := func(v, def time.Duration) time.Duration {
		switch {
		case v < 0:
			return 0
		case v == 0:
			return def
		default:
			return v
		}
	}
	t.NavigationTimeout = pick(t.NavigationTimeout, d.NavigationTimeout)
	t.LoginPoll = pick(t.LoginPoll, d.LoginPoll)
	t.PostLoginSettle = pick(t.PostLoginSettle, d.PostLoginSettle)
	t.EditorSettle = pick(t.EditorSettle, d.EditorSettle)
	t.BlockDelay = pick(t.BlockDelay, d.BlockDelay)
	t.KeyDelay = pick(t.KeyDelay, d.KeyDelay)
	t.UploadWait = pick(t.UploadWait, d.UploadWait)
	t.PasteGrace = pick(t.PasteGrace, d.PasteGrace)
	t.PollInterval = pick(t.PollInterval, d.PollInterval)
	t.SaveSettle = pick(t.SaveSettle, d.SaveSettle)
	if t.StableSamples <= 0 {
		t.StableSamples = d.StableSamples
	}
	if t.MaxPolls <= 0 {
		t.MaxPolls = d.MaxPolls
	}
	return t
}
