package md2note

import (
	"fmt"
	"strings"
)

// BlockKind identifies a ContentBlock variant.
type BlockKind int

// Block kinds.
const (
	KindHeading BlockKind = iota + 1
	KindParagraph
	KindImage
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindImage:
		return "image"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// ContentBlock is one structural unit of a document. The set of
// implementations is closed: Heading, Paragraph and Image.
type ContentBlock interface {
	Kind() BlockKind
	Validate() error
	block()
}

// Compile-time interface checks
var (
	_ ContentBlock = Heading{}
	_ ContentBlock = Paragraph{}
	_ ContentBlock = Image{}
)

// Heading levels accepted by the editor's marker syntax.
const (
	MinHeadingLevel = 1
	MaxHeadingLevel = 6
)

// Heading is a section title. Level 1 is the largest.
type Heading struct {
	Level int
	Text  string
}

func (Heading) Kind() BlockKind { return KindHeading }
func (Heading) block()          {}

// Validate checks the level range and that text is present.
func (h Heading) Validate() error {
	if h.Level < MinHeadingLevel || h.Level > MaxHeadingLevel {
		return fmt.Errorf("%w: heading level %d (must be %d-%d)", ErrInvalidBlock, h.Level, MinHeadingLevel, MaxHeadingLevel)
	}
	if strings.TrimSpace(h.Text) == "" {
		return fmt.Errorf("%w: empty heading", ErrInvalidBlock)
	}
	return nil
}

// Paragraph is plain text. Embedded "\n" become soft line breaks.
type Paragraph struct {
	Text string
}

func (Paragraph) Kind() BlockKind { return KindParagraph }
func (Paragraph) block()          {}

// Validate rejects blank paragraphs.
func (p Paragraph) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: empty paragraph", ErrInvalidBlock)
	}
	return nil
}

// Lines splits the paragraph on line breaks.
func (p Paragraph) Lines() []string {
	return strings.Split(strings.ReplaceAll(p.Text, "\r\n", "\n"), "\n")
}

// Image references a local file to upload. Alt is informational.
type Image struct {
	Path string
	Alt  string
}

func (Image) Kind() BlockKind { return KindImage }
func (Image) block()          {}

// Validate requires a path. Existence is checked at upload time so a
// missing file degrades instead of rejecting the document.
func (i Image) Validate() error {
	if strings.TrimSpace(i.Path) == "" {
		return fmt.Errorf("%w: image without path", ErrInvalidBlock)
	}
	return nil
}

// Intent is what the caller wants done with the draft.
type Intent int

// Intents. Publish currently behaves like Draft.
const (
	IntentDraft Intent = iota
	IntentPublish
)

func (i Intent) String() string {
	if i == IntentPublish {
		return "publish"
	}
	return "draft"
}

// ParseIntent maps "draft" or "publish" (case-insensitive) to an Intent.
func ParseIntent(s string) (Intent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "draft":
		return IntentDraft, nil
	case "publish":
		return IntentPublish, nil
	default:
		return IntentDraft, fmt.Errorf("%w: %q (must be draft or publish)", ErrInvalidIntent, s)
	}
}

// Document is the input of one composition run.
type Document struct {
	Title  string
	Blocks []ContentBlock
	Intent Intent
}
