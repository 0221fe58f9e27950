package md2note

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"runtime"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/alnah/go-md2note/internal/process"
)

// Compile-time interface checks
var (
	_ browser = (*rodBrowser)(nil)
	_ page    = (*rodPage)(nil)
	_ element = (*rodElement)(nil)
)

// launchRod starts Chrome through rod's launcher.
// Rod automatically downloads Chromium on first run if not found.
func launchRod(_ context.Context, cfg SessionConfig) (browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-blink-features", "AutomationControlled")

	// Use pre-installed browser if specified (Docker/containerized environments)
	bin := cfg.BrowserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if cfg.NoSandbox || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	return &rodBrowser{browser: b, launcher: l, stealth: cfg.Stealth}, nil
}

// rodBrowser implements browser using go-rod.
type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	stealth  bool
}

func (r *rodBrowser) Page(ctx context.Context) (page, error) {
	var (
		p   *rod.Page
		err error
	)
	if r.stealth {
		p, err = stealth.Page(r.browser.Context(ctx))
	} else {
		p, err = r.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, err
	}
	// Detach from ctx: the page outlives the call that created it.
	return &rodPage{page: p.Context(context.Background())}, nil
}

func (r *rodBrowser) Cookies(ctx context.Context) ([]Cookie, error) {
	cs, err := r.browser.Context(ctx).GetCookies()
	if err != nil {
		return nil, err
	}
	out := make([]Cookie, 0, len(cs))
	for _, c := range cs {
		out = append(out, Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  float64(c.Expires),
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return out, nil
}

func (r *rodBrowser) SetCookies(ctx context.Context, cookies []Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		params = append(params, p)
	}
	if len(params) == 0 {
		return nil
	}
	return r.browser.Context(ctx).SetCookies(params)
}

// Close closes the browser, then kills the process group so no renderer
// survives, and removes the temporary profile.
func (r *rodBrowser) Close() error {
	err := r.browser.Close()
	if r.launcher != nil {
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher.Cleanup()
	}
	return err
}

// rodPage implements page using go-rod.
type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	if err := pg.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	return nil
}

func (p *rodPage) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (p *rodPage) Find(ctx context.Context, c Candidate) (element, error) {
	var (
		el  *rod.Element
		err error
	)
	if c.Text != "" {
		el, err = p.page.Context(ctx).ElementR(c.CSS, regexp.QuoteMeta(c.Text))
	} else {
		el, err = p.page.Context(ctx).Element(c.CSS)
	}
	if err != nil {
		return nil, err
	}
	return &rodElement{el: el}, nil
}

func (p *rodPage) FindAll(ctx context.Context, css string) ([]element, error) {
	els, err := p.page.Context(ctx).Elements(css)
	if err != nil {
		return nil, err
	}
	out := make([]element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out, nil
}

func (p *rodPage) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return p.page.Context(ctx).InsertText(text)
}

// Keys sends printable ASCII as real key events and inserts anything else.
func (p *rodPage) Keys(ctx context.Context, text string) error {
	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		if r >= ' ' && r <= '~' {
			err = p.page.Keyboard.Type(input.Key(r))
		} else {
			err = p.page.Context(ctx).InsertText(string(r))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *rodPage) Press(ctx context.Context, k Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch k {
	case KeyEnter:
		return p.page.Keyboard.Type(input.Enter)
	case KeyTab:
		return p.page.Keyboard.Type(input.Tab)
	case KeyEnd:
		return p.page.Keyboard.Type(input.End)
	case KeyDocumentEnd:
		return p.page.KeyActions().Press(input.ControlLeft).Type(input.End).Do()
	case KeyLineBreak:
		return p.page.KeyActions().Press(input.ShiftLeft).Type(input.Enter).Do()
	case KeySave:
		return p.page.KeyActions().Press(saveModifier()).Type(input.Key('s')).Do()
	default:
		return fmt.Errorf("unsupported key %v", k)
	}
}

func saveModifier() input.Key {
	if runtime.GOOS == "darwin" {
		return input.MetaLeft
	}
	return input.ControlLeft
}

func (p *rodPage) Eval(ctx context.Context, js string, out any, args ...any) error {
	res, err := p.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return res.Value.Unmarshal(out)
}

func (p *rodPage) AddInitScript(js string) error {
	_, err := p.page.EvalOnNewDocument(js)
	return err
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

// rodElement implements element using go-rod. Every call rebinds the
// element to the caller's context.
type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(text)
}

func (e *rodElement) SetFiles(ctx context.Context, paths []string) error {
	return e.el.Context(ctx).SetFiles(paths)
}
