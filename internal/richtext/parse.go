package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse reads stored markup into paragraphs. Bare text, line breaks and
// inline elements at the top level are wrapped into a paragraph of their own.
// Malformed markup is read leniently, the way a browser would.
func Parse(markup string) Document {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		// Only reader errors surface here; keep the raw text
		d := Document{Blocks: []Block{{Runs: []Run{{Text: markup}}}}}
		d.normalize()
		return d
	}

	p := &parser{}
	for _, n := range nodes {
		p.walk(n, Format{})
	}
	p.endBlock(false)

	d := Document{Blocks: p.blocks}
	d.normalize()
	return d
}

// PlainText returns the text content of markup, paragraphs joined by newlines.
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}
	return Parse(markup).PlainText()
}

// IsBlank reports whether markup carries no visible text.
func IsBlank(markup string) bool {
	return strings.TrimSpace(PlainText(markup)) == ""
}

type parser struct {
	blocks  []Block
	cur     []cell
	open    bool
	content bool
}

func (p *parser) startBlock() {
	p.cur = nil
	p.open = true
	p.content = false
}

// endBlock emits the open paragraph when it received content or force is set.
// One trailing break is a placeholder and is dropped.
func (p *parser) endBlock(force bool) {
	if !p.open {
		return
	}
	if p.content || force {
		if n := len(p.cur); n > 0 && p.cur[n-1].r == '\n' {
			p.cur = p.cur[:n-1]
		}
		p.blocks = append(p.blocks, fromCells(p.cur))
	}
	p.open = false
	p.cur = nil
}

func (p *parser) text(s string, f Format) {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
	if !p.open {
		if strings.TrimSpace(s) == "" {
			return
		}
		p.startBlock()
	}
	for _, r := range s {
		p.cur = append(p.cur, cell{r: r, f: f})
	}
	p.content = true
}

func (p *parser) lineBreak(f Format) {
	if !p.open {
		p.startBlock()
	}
	p.cur = append(p.cur, cell{r: '\n', f: f})
	p.content = true
}

func (p *parser) walk(n *html.Node, f Format) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, f)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title:
		return
	case atom.Br:
		p.lineBreak(f)
		return
	case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre:
		p.endBlock(false)
		p.startBlock()
		mark := len(p.blocks)
		p.children(n, f)
		p.endBlock(len(p.blocks) == mark)
		return
	case atom.Ul, atom.Ol:
		p.endBlock(false)
		p.children(n, f)
		p.endBlock(false)
		return
	case atom.B, atom.Strong:
		f.Bold = true
	case atom.I, atom.Em:
		f.Italic = true
	case atom.U, atom.Ins:
		f.Underline = true
	case atom.S, atom.Strike, atom.Del:
		f.Strike = true
	case atom.Font:
		for _, a := range n.Attr {
			if a.Key == "size" {
				if size, err := strconv.Atoi(strings.TrimSpace(a.Val)); err == nil {
					f.Size = clampLevel(size)
				}
			}
		}
	}
	p.children(n, f)
}

func (p *parser) children(n *html.Node, f Format) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, f)
	}
}
