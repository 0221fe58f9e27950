package markdown

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	md2note "github.com/alnah/go-md2note"
)

// headingLevels maps heading atoms to their level.
var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3,
	atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// blockAtoms end the current paragraph when opened or closed.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Blockquote: true,
	atom.Pre: true, atom.Table: true, atom.Tr: true, atom.Figure: true,
	atom.Figcaption: true, atom.Hr: true,
}

// htmlBlocks converts a raw HTML block into content blocks. Images and
// headings map to their own blocks, everything else becomes paragraph text.
func htmlBlocks(raw string, resolve func(string) string) []md2note.ContentBlock {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	c := &htmlCollector{resolve: resolve}
	c.walk(doc)
	c.flush()
	return c.blocks
}

type htmlCollector struct {
	resolve func(string) string
	buf     strings.Builder
	blocks  []md2note.ContentBlock
}

func (c *htmlCollector) add(b md2note.ContentBlock) {
	if b.Validate() == nil {
		c.blocks = append(c.blocks, b)
	}
}

func (c *htmlCollector) flush() {
	lines := strings.Split(c.buf.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	c.buf.Reset()
	c.add(md2note.Paragraph{Text: strings.Trim(strings.Join(lines, "\n"), "\n")})
}

func (c *htmlCollector) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.buf.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript:
			return
		case atom.Img:
			c.flush()
			if img, ok := imageFromNode(n, c.resolve); ok {
				c.add(img)
			}
			return
		case atom.Br:
			c.buf.WriteByte('\n')
			return
		}
		if level, ok := headingLevels[n.DataAtom]; ok {
			c.flush()
			c.add(md2note.Heading{Level: level, Text: strings.TrimSpace(collapseSpace(nodeText(n)))})
			return
		}
	}

	block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
	if block {
		c.flush()
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
	if block {
		c.flush()
	}
}

// parseImgTag reads an inline <img> tag.
func parseImgTag(raw string, resolve func(string) string) (md2note.Image, bool) {
	if !strings.Contains(strings.ToLower(raw), "<img") {
		return md2note.Image{}, false
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return md2note.Image{}, false
	}
	for _, n := range nodes {
		if img := findAtom(n, atom.Img); img != nil {
			return imageFromNode(img, resolve)
		}
	}
	return md2note.Image{}, false
}

// isBreakTag reports whether raw is a <br> tag.
func isBreakTag(raw string) bool {
	z := html.NewTokenizer(strings.NewReader(raw))
	switch z.Next() {
	case html.StartTagToken, html.SelfClosingTagToken:
		return z.Token().DataAtom == atom.Br
	default:
		return false
	}
}

// stripTags returns the text of raw with markup removed.
func stripTags(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; either way the text so far is all there is.
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script, atom.Style:
				skip++
			case atom.Br:
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			tok := z.Token()
			if (tok.DataAtom == atom.Script || tok.DataAtom == atom.Style) && skip > 0 {
				skip--
			}
		case html.SelfClosingTagToken:
			if z.Token().DataAtom == atom.Br {
				sb.WriteByte('\n')
			}
		}
	}
}

func imageFromNode(n *html.Node, resolve func(string) string) (md2note.Image, bool) {
	src := attr(n, "src")
	if src == "" {
		return md2note.Image{}, false
	}
	return md2note.Image{Path: resolve(src), Alt: attr(n, "alt")}, true
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// collapseSpace folds whitespace runs into single spaces, keeping edges.
func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				sb.WriteByte(' ')
			}
			space = true
		default:
			sb.WriteRune(r)
			space = false
		}
	}
	return sb.String()
}
