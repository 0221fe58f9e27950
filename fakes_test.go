package md2note

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// Fakes for the browser, page and element interfaces
// ---------------------------------------------------------------------------

type fakeElement struct {
	name       string
	page       *fakePage
	visible    bool
	visibleErr error
	clickErr   error
	fillErr    error
	filesErr   error
	onSetFiles func()
}

func (e *fakeElement) Visible(context.Context) (bool, error) {
	return e.visible, e.visibleErr
}

func (e *fakeElement) Click(context.Context) error {
	e.page.record("click:" + e.name)
	return e.clickErr
}

func (e *fakeElement) Fill(_ context.Context, text string) error {
	e.page.record("fill:" + e.name + "=" + text)
	return e.fillErr
}

func (e *fakeElement) SetFiles(_ context.Context, paths []string) error {
	e.page.record("setfiles:" + e.name)
	if e.filesErr != nil {
		return e.filesErr
	}
	if e.onSetFiles != nil {
		e.onSetFiles()
	}
	return nil
}

type fakePage struct {
	mu sync.Mutex

	elements map[string]*fakeElement   // Find, keyed by Candidate.String()
	all      map[string][]*fakeElement // FindAll, keyed by CSS
	finds    []string

	navErr    error
	urls      []string // successive URL() results, last one repeats
	urlCalls  int
	storage   OriginStorage
	storeErr  error
	inits     []string
	closed    bool
	keyErr    error
	pressErrs map[Key]error

	imageCount int
	lastSrc    string
	snapFn     func(call int) imageSnapshot
	snapCalls  int
	pasteRes   string
	pasteErr   error
	onPaste    func()

	actions []string
}

func newFakePage() *fakePage {
	return &fakePage{
		elements: map[string]*fakeElement{},
		all:      map[string][]*fakeElement{},
		urls:     []string{"https://note.com/"},
		pasteRes: "event",
	}
}

func (p *fakePage) record(a string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, a)
}

func (p *fakePage) log() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// add registers a visible element for selector.
func (p *fakePage) add(selector string) *fakeElement {
	c := ParseCandidate(selector)
	el := &fakeElement{name: c.String(), page: p, visible: true}
	p.elements[c.String()] = el
	return el
}

func (p *fakePage) addInput(css string) *fakeElement {
	el := &fakeElement{name: css, page: p, visible: false}
	p.all[css] = append(p.all[css], el)
	return el
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.record("navigate:" + url)
	return p.navErr
}

func (p *fakePage) URL(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := min(p.urlCalls, len(p.urls)-1)
	p.urlCalls++
	return p.urls[i], nil
}

func (p *fakePage) Find(ctx context.Context, c Candidate) (element, error) {
	p.mu.Lock()
	p.finds = append(p.finds, c.String())
	el, ok := p.elements[c.String()]
	p.mu.Unlock()
	if ok {
		return el, nil
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (p *fakePage) FindAll(_ context.Context, css string) ([]element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []element
	for _, el := range p.all[css] {
		out = append(out, el)
	}
	return out, nil
}

func (p *fakePage) Type(_ context.Context, text string) error {
	p.record("type:" + text)
	return nil
}

func (p *fakePage) Keys(_ context.Context, text string) error {
	p.record("keys:" + text)
	return p.keyErr
}

func (p *fakePage) Press(_ context.Context, k Key) error {
	p.record("press:" + k.String())
	return p.pressErrs[k]
}

func (p *fakePage) Eval(_ context.Context, js string, out any, _ ...any) error {
	switch js {
	case jsImageSnapshot:
		p.mu.Lock()
		call := p.snapCalls
		p.snapCalls++
		s := imageSnapshot{Count: p.imageCount, LastSrc: p.lastSrc}
		fn := p.snapFn
		p.mu.Unlock()
		if fn != nil {
			s = fn(call)
		}
		*out.(*imageSnapshot) = s
	case jsPasteImage:
		p.record("paste")
		if p.pasteErr != nil {
			return p.pasteErr
		}
		if p.onPaste != nil {
			p.onPaste()
		}
		*out.(*string) = p.pasteRes
	case jsClearSelection:
		p.record("clear-selection")
	case jsReadStorage:
		if p.storeErr != nil {
			return p.storeErr
		}
		*out.(*OriginStorage) = p.storage
	default:
		return fmt.Errorf("unexpected script")
	}
	return nil
}

func (p *fakePage) AddInitScript(js string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits = append(p.inits, js)
	return nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

type fakeBrowser struct {
	page       *fakePage
	pageErr    error
	cookies    []Cookie
	cookiesErr error
	seeded     []Cookie
	closes     int
}

func (b *fakeBrowser) Page(context.Context) (page, error) {
	if b.pageErr != nil {
		return nil, b.pageErr
	}
	return b.page, nil
}

func (b *fakeBrowser) Cookies(context.Context) ([]Cookie, error) {
	return b.cookies, b.cookiesErr
}

func (b *fakeBrowser) SetCookies(_ context.Context, cs []Cookie) error {
	b.seeded = append(b.seeded, cs...)
	return nil
}

func (b *fakeBrowser) Close() error {
	b.closes++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var errBoom = errors.New("boom")

// fastTiming keeps every wait in the millisecond range.
func fastTiming() Timing {
	return Timing{
		NavigationTimeout: time.Second,
		LoginPoll:         5 * time.Millisecond,
		PostLoginSettle:   -1,
		EditorSettle:      -1,
		BlockDelay:        -1,
		KeyDelay:          -1,
		UploadWait:        60 * time.Millisecond,
		PasteGrace:        -1,
		PollInterval:      2 * time.Millisecond,
		StableSamples:     3,
		MaxPolls:          15,
		SaveSettle:        -1,
	}
}

// fastTargets shortens every selector wait.
func fastTargets() Targets {
	t := DefaultTargets().WithSelectorTimeout(10 * time.Millisecond)
	t.LoginDetect.Timeout = 5 * time.Millisecond
	return t
}

func launcherFor(b *fakeBrowser) launchFunc {
	return func(context.Context, SessionConfig) (browser, error) {
		return b, nil
	}
}

// openFake opens a Session over b with fast timing.
func openFake(ctx context.Context, cfg SessionConfig, b *fakeBrowser) (*Session, error) {
	if cfg.DetectTimeout == 0 {
		cfg.DetectTimeout = 50 * time.Millisecond
	}
	return Open(ctx, cfg,
		withLauncher(launcherFor(b)),
		WithSessionTargets(fastTargets()),
		WithSessionTiming(fastTiming()),
	)
}

func indexOf(actions []string, a string) int {
	for i, x := range actions {
		if x == a {
			return i
		}
	}
	return -1
}

func count(actions []string, a string) int {
	n := 0
	for _, x := range actions {
		if x == a {
			n++
		}
	}
	return n
}
