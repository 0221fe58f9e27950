// Package markdown turns a Markdown article into the ordered content blocks
// replayed into the editor.
//
// The editor only understands headings, plain paragraphs and images, so
// everything else is flattened: lists and block quotes keep their line
// markers as text, code keeps its literal lines, and thematic breaks are
// dropped. Images found inside a paragraph split it, in order.
package markdown

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	md2note "github.com/alnah/go-md2note"
	"github.com/alnah/go-md2note/internal/fileutil"
)

// ArticleFile is the file looked up when the input is a directory.
const ArticleFile = "article.md"

// Sentinel errors for input resolution.
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrNotMarkdown     = errors.New("input is not a Markdown file")
)

// Parser converts Markdown into content blocks.
type Parser struct {
	md goldmark.Markdown
}

// New creates a Parser with GFM extensions.
func New() *Parser {
	return &Parser{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, autolinks, task lists
		),
	)}
}

// ResolveInput maps a CLI argument to a Markdown file: a directory must
// contain article.md, a file must have a .md or .markdown extension.
func ResolveInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrArticleNotFound, path)
	}
	if info.IsDir() {
		article := filepath.Join(path, ArticleFile)
		if !fileutil.FileExists(article) {
			return "", fmt.Errorf("%w: %s", ErrArticleNotFound, article)
		}
		return article, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return path, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrNotMarkdown, path)
	}
}

// ParseFile reads path and parses it. Relative image paths resolve against
// the file's directory.
func (p *Parser) ParseFile(path string) ([]md2note.ContentBlock, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Parse(data, filepath.Dir(path)), nil
}

// Parse converts source into blocks. Image paths that are neither absolute
// nor URLs are joined to baseDir.
func (p *Parser) Parse(source []byte, baseDir string) []md2note.ContentBlock {
	doc := p.md.Parser().Parse(text.NewReader(source))
	w := &walker{source: source, baseDir: baseDir}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
	return w.blocks
}

// ExtractTitle picks the document title. An explicit title wins unless it
// is empty or the default; otherwise a leading level-1 heading becomes the
// title and is removed from the blocks.
func ExtractTitle(blocks []md2note.ContentBlock, explicit string) (string, []md2note.ContentBlock) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" && explicit != md2note.DefaultTitle {
		return explicit, blocks
	}
	if len(blocks) > 0 {
		if h, ok := blocks[0].(md2note.Heading); ok && h.Level == 1 {
			return h.Text, blocks[1:]
		}
	}
	return md2note.DefaultTitle, blocks
}

// walker accumulates top-level blocks.
type walker struct {
	source  []byte
	baseDir string
	blocks  []md2note.ContentBlock
}

func (w *walker) emit(b md2note.ContentBlock) {
	if b.Validate() != nil {
		return
	}
	w.blocks = append(w.blocks, b)
}

func (w *walker) emitText(lines []string) {
	w.emit(md2note.Paragraph{Text: joinLines(lines)})
}

func (w *walker) emitImages(imgs []md2note.Image) {
	for _, img := range imgs {
		w.emit(img)
	}
}

func (w *walker) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		txt, imgs := w.inlineText(n)
		w.emit(md2note.Heading{Level: n.Level, Text: strings.TrimSpace(txt)})
		w.emitImages(imgs)

	case *ast.Paragraph, *ast.TextBlock:
		w.paragraph(n)

	case *ast.ThematicBreak:
		// no editor equivalent

	case *ast.HTMLBlock:
		w.blocks = append(w.blocks, htmlBlocks(w.rawLines(n), w.resolvePath)...)

	default:
		lines, imgs := w.lines(n)
		w.emitText(lines)
		w.emitImages(imgs)
	}
}

// paragraph emits text runs and images in document order.
func (w *walker) paragraph(n ast.Node) {
	in := &inliner{w: w}
	in.onImage = func(img md2note.Image) {
		w.emit(md2note.Paragraph{Text: tidy(in.take())})
		w.emit(img)
	}
	in.walkChildren(n)
	w.emit(md2note.Paragraph{Text: tidy(in.take())})
}

// lines renders a block as text lines, pulling images out.
func (w *walker) lines(n ast.Node) ([]string, []md2note.Image) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		txt, imgs := w.inlineText(n)
		return splitLines(tidy(txt)), imgs

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return splitLines(strings.TrimRight(w.rawLines(n), "\n")), nil

	case *ast.List:
		return w.listLines(n, "")

	case *ast.Blockquote:
		var out []string
		var imgs []md2note.Image
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			ls, is := w.lines(c)
			for _, l := range ls {
				out = append(out, strings.TrimRight("> "+l, " "))
			}
			imgs = append(imgs, is...)
		}
		return out, imgs

	case *extast.Table:
		var out []string
		var imgs []md2note.Image
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				txt, is := w.inlineText(cell)
				cells = append(cells, strings.TrimSpace(txt))
				imgs = append(imgs, is...)
			}
			out = append(out, strings.Join(cells, " | "))
		}
		return out, imgs

	case *ast.HTMLBlock:
		return splitLines(stripTags(w.rawLines(n))), nil

	case *ast.ThematicBreak:
		return nil, nil

	default:
		var out []string
		var imgs []md2note.Image
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			ls, is := w.lines(c)
			out = append(out, ls...)
			imgs = append(imgs, is...)
		}
		return out, imgs
	}
}

// listLines prefixes items with "- " or "N. ", indenting nested lists.
func (w *walker) listLines(l *ast.List, indent string) ([]string, []md2note.Image) {
	var out []string
	var imgs []md2note.Image
	num := l.Start
	if num == 0 {
		num = 1
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		pad := indent + strings.Repeat(" ", len(marker))
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			var ls []string
			var is []md2note.Image
			if sub, ok := c.(*ast.List); ok {
				ls, is = w.listLines(sub, pad)
				out = append(out, ls...)
				imgs = append(imgs, is...)
				continue
			}
			ls, is = w.lines(c)
			imgs = append(imgs, is...)
			for _, line := range ls {
				if first {
					out = append(out, indent+marker+line)
					first = false
					continue
				}
				out = append(out, pad+line)
			}
		}
		if first {
			out = append(out, strings.TrimRight(indent+marker, " "))
		}
	}
	return out, imgs
}

// inlineText renders inline children as text and collects images.
func (w *walker) inlineText(n ast.Node) (string, []md2note.Image) {
	var imgs []md2note.Image
	in := &inliner{w: w}
	in.onImage = func(img md2note.Image) { imgs = append(imgs, img) }
	in.walkChildren(n)
	return in.take(), imgs
}

func (w *walker) rawLines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	if hb, ok := n.(*ast.HTMLBlock); ok && hb.HasClosure() {
		sb.Write(hb.ClosureLine.Value(w.source))
	}
	return sb.String()
}

// resolvePath keeps URLs and absolute paths and joins the rest to baseDir.
func (w *walker) resolvePath(dest string) string {
	dest = strings.TrimSpace(dest)
	if fileutil.IsURL(dest) {
		return dest
	}
	if u, err := url.PathUnescape(dest); err == nil {
		dest = u
	}
	dest = strings.TrimPrefix(dest, "file://")
	if filepath.IsAbs(dest) || w.baseDir == "" {
		return filepath.Clean(dest)
	}
	return filepath.Join(w.baseDir, dest)
}

// decodeText resolves backslash escapes and character references the way
// goldmark's HTML writer does, so the editor receives the characters.
func decodeText(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

// inliner flattens inline nodes into text.
type inliner struct {
	w       *walker
	buf     strings.Builder
	onImage func(md2note.Image)
}

// take returns the accumulated text and resets the buffer.
func (in *inliner) take() string {
	s := in.buf.String()
	in.buf.Reset()
	return s
}

func (in *inliner) walkChildren(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		in.walk(c)
	}
}

func (in *inliner) walk(n ast.Node) {
	src := in.w.source
	switch n := n.(type) {
	case *ast.Text:
		if n.IsRaw() {
			in.buf.Write(n.Segment.Value(src))
		} else {
			in.buf.Write(decodeText(n.Segment.Value(src)))
		}
		switch {
		case n.HardLineBreak():
			in.buf.WriteByte('\n')
		case n.SoftLineBreak():
			in.buf.WriteByte(' ')
		}

	case *ast.String:
		in.buf.Write(n.Value)

	case *ast.AutoLink:
		in.buf.Write(n.URL(src))

	case *ast.Image:
		var alt strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				alt.Write(decodeText(t.Segment.Value(src)))
			}
		}
		in.onImage(md2note.Image{Path: in.w.resolvePath(string(n.Destination)), Alt: alt.String()})

	case *ast.RawHTML:
		var raw strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			raw.Write(seg.Value(src))
		}
		in.rawHTML(raw.String())

	case *extast.TaskCheckBox:
		if n.IsChecked {
			in.buf.WriteString("[x] ")
		} else {
			in.buf.WriteString("[ ] ")
		}

	default:
		in.walkChildren(n)
	}
}

// rawHTML handles inline tags: <img> becomes an image, <br> a line
// break, anything else is dropped.
func (in *inliner) rawHTML(raw string) {
	if img, ok := parseImgTag(raw, in.w.resolvePath); ok {
		in.onImage(img)
		return
	}
	if isBreakTag(raw) {
		in.buf.WriteByte('\n')
	}
}

// splitLines splits on newlines and trims trailing spaces.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return lines
}

// joinLines drops leading and trailing blank lines. Indentation is kept.
func joinLines(lines []string) string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	out := make([]string, 0, end-start)
	for _, l := range lines[start:end] {
		out = append(out, strings.TrimRight(l, " \t"))
	}
	return strings.Join(out, "\n")
}

// tidy trims every line of a paragraph run.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
