package md2note

// Notes:
// - The fake page blocks in Find until the attempt context expires when no
//   element is registered, which mirrors rod's retrying Element lookup.

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestParseCandidate - Locator syntax
// ---------------------------------------------------------------------------

func TestParseCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Candidate
	}{
		{".ProseMirror", Candidate{CSS: ".ProseMirror"}},
		{`  textarea[placeholder="記事タイトル"] `, Candidate{CSS: `textarea[placeholder="記事タイトル"]`}},
		{`button:has-text("下書き保存")`, Candidate{CSS: "button", Text: "下書き保存"}},
		{`button:has-text('Save')`, Candidate{CSS: "button", Text: "Save"}},
		{`:has-text("Save")`, Candidate{CSS: "*", Text: "Save"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseCandidate(tt.in))
		})
	}
}

func TestSelectorChain_Selectors(t *testing.T) {
	t.Parallel()

	chain := NewChain("save", 0, `button:has-text("Save")`, ".save-button")
	assert.Equal(t, []string{`button:has-text("Save")`, ".save-button"}, chain.Selectors())
	assert.Equal(t, DefaultSelectorTimeout, chain.timeout())
}

// ---------------------------------------------------------------------------
// TestResolve - Chain priority and visibility
// ---------------------------------------------------------------------------

func TestResolve_FirstMatchingCandidateWins(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.add(".second")
	p.add(".third")
	chain := NewChain("content", 5*time.Millisecond, ".first", ".second", ".third")

	_, c, err := resolve(context.Background(), p, chain)
	require.NoError(t, err)

	assert.Equal(t, ".second", c.CSS)
	assert.Equal(t, []string{".first", ".second"}, p.finds, "later candidates must not be tried")
}

func TestResolve_InvisibleCandidateSkipped(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.add(".hidden").visible = false
	p.add(".shown")
	chain := NewChain("content", 5*time.Millisecond, ".hidden", ".shown")

	el, c, err := resolve(context.Background(), p, chain)
	require.NoError(t, err)
	assert.Equal(t, ".shown", c.CSS)
	assert.Equal(t, ".shown", el.(*fakeElement).name)
}

func TestResolve_VisibilityErrorSkipped(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.add(".broken").visibleErr = errBoom
	p.add(".ok")

	_, c, err := resolve(context.Background(), p, NewChain("x", 5*time.Millisecond, ".broken", ".ok"))
	require.NoError(t, err)
	assert.Equal(t, ".ok", c.CSS)
}

func TestResolve_Exhausted(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	chain := NewChain("save", 2*time.Millisecond, ".a", ".b", ".c")

	_, _, err := resolve(context.Background(), p, chain)
	require.ErrorIs(t, err, ErrElementNotFound)
	assert.Contains(t, err.Error(), "save")
	assert.Len(t, p.finds, 3)
}

func TestResolve_CancelledContext(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.add(".a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := resolve(ctx, p, NewChain("x", time.Second, ".a"))
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Empty(t, p.finds)
}

func TestResolve_TextCandidate(t *testing.T) {
	t.Parallel()

	p := newFakePage()
	p.add(`button:has-text("保存")`)

	_, c, err := resolve(context.Background(), p, NewChain("save", 5*time.Millisecond,
		`button:has-text("下書き保存")`, `button:has-text("保存")`))
	require.NoError(t, err)
	assert.Equal(t, "保存", c.Text)
}
