package md2note

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultSelectorTimeout is the per-candidate wait when a chain sets none.
const DefaultSelectorTimeout = 2 * time.Second

var errNotInteractable = errors.New("element not visible")

// Candidate is one locator: a CSS selector, optionally narrowed to elements
// whose text contains Text.
type Candidate struct {
	CSS  string
	Text string
}

// hasTextPattern matches the `css:has-text("text")` form.
var hasTextPattern = regexp.MustCompile(`^(.*):has-text\((["'])(.*)["']\)$`)

// ParseCandidate reads a locator string. `button:has-text("Save")` narrows
// by text; anything else is plain CSS.
func ParseCandidate(s string) Candidate {
	s = strings.TrimSpace(s)
	m := hasTextPattern.FindStringSubmatch(s)
	if m == nil {
		return Candidate{CSS: s}
	}
	css := strings.TrimSpace(m[1])
	if css == "" {
		css = "*"
	}
	return Candidate{CSS: css, Text: m[3]}
}

func (c Candidate) String() string {
	if c.Text == "" {
		return c.CSS
	}
	return fmt.Sprintf("%s:has-text(%q)", c.CSS, c.Text)
}

// SelectorChain is an ordered list of locators for one logical UI target.
// Earlier candidates are preferred.
type SelectorChain struct {
	Name       string
	Candidates []Candidate
	Timeout    time.Duration // per candidate
}

// NewChain builds a chain from locator strings.
func NewChain(name string, timeout time.Duration, selectors ...string) SelectorChain {
	cs := make([]Candidate, 0, len(selectors))
	for _, s := range selectors {
		cs = append(cs, ParseCandidate(s))
	}
	return SelectorChain{Name: name, Candidates: cs, Timeout: timeout}
}

// Selectors renders the chain back to locator strings.
func (sc SelectorChain) Selectors() []string {
	out := make([]string, len(sc.Candidates))
	for i, c := range sc.Candidates {
		out[i] = c.String()
	}
	return out
}

func (sc SelectorChain) timeout() time.Duration {
	if sc.Timeout > 0 {
		return sc.Timeout
	}
	return DefaultSelectorTimeout
}

// resolve returns the first candidate that appears within the chain's
// per-attempt timeout and is visible. Later candidates are not tried once
// one is accepted.
func resolve(ctx context.Context, p page, chain SelectorChain) (element, Candidate, error) {
	for _, c := range chain.Candidates {
		if err := ctx.Err(); err != nil {
			return nil, Candidate{}, fmt.Errorf("%w: %s: %v", ErrElementNotFound, chain.Name, err)
		}
		el, err := attempt(ctx, p, c, chain.timeout())
		if err == nil {
			return el, c, nil
		}
	}
	return nil, Candidate{}, fmt.Errorf("%w: %s (tried %d selectors)", ErrElementNotFound, chain.Name, len(chain.Candidates))
}

func attempt(ctx context.Context, p page, c Candidate, timeout time.Duration) (element, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := p.Find(actx, c)
	if err != nil {
		return nil, err
	}
	visible, err := el.Visible(actx)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errNotInteractable
	}
	return el, nil
}
