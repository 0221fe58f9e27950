package md2note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestContentBlock_Validate - Block invariants
// ---------------------------------------------------------------------------

func TestContentBlock_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		block   ContentBlock
		wantErr bool
	}{
		{"heading level 1", Heading{Level: 1, Text: "Title"}, false},
		{"heading level 6", Heading{Level: 6, Text: "Deep"}, false},
		{"heading level 0", Heading{Level: 0, Text: "x"}, true},
		{"heading level 7", Heading{Level: 7, Text: "x"}, true},
		{"heading blank", Heading{Level: 2, Text: "  "}, true},
		{"paragraph", Paragraph{Text: "Hello"}, false},
		{"paragraph blank", Paragraph{Text: "\n"}, true},
		{"image", Image{Path: "a.png"}, false},
		{"image without path", Image{Alt: "alt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.block.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBlock)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBlockKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "heading", Heading{}.Kind().String())
	assert.Equal(t, "paragraph", Paragraph{}.Kind().String())
	assert.Equal(t, "image", Image{}.Kind().String())
	assert.Equal(t, "BlockKind(9)", BlockKind(9).String())
}

func TestParagraph_Lines(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"one", "two", "three"}, Paragraph{Text: "one\r\ntwo\nthree"}.Lines())
	assert.Equal(t, []string{"single"}, Paragraph{Text: "single"}.Lines())
}

// ---------------------------------------------------------------------------
// TestParseIntent - Status flag
// ---------------------------------------------------------------------------

func TestParseIntent(t *testing.T) {
	t.Parallel()

	got, err := ParseIntent("")
	require.NoError(t, err)
	assert.Equal(t, IntentDraft, got)

	got, err = ParseIntent("Publish")
	require.NoError(t, err)
	assert.Equal(t, IntentPublish, got)
	assert.Equal(t, "publish", got.String())

	_, err = ParseIntent("schedule")
	assert.ErrorIs(t, err, ErrInvalidIntent)
}
