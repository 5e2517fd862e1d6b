// Package richtext holds the block model behind the note editor: parsing
// stored markup, rendering it back canonically, formatting commands and
// per-session undo.
package richtext

import "strings"

// Font size levels, matching the legacy <font size> attribute.
const (
	MinFontLevel     = 1
	MaxFontLevel     = 7
	DefaultFontLevel = 3
)

// Format is the inline style of a run. Size 0 means no explicit size.
type Format struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Size      int
}

// Level returns the effective font level.
func (f Format) Level() int {
	if f.Size == 0 {
		return DefaultFontLevel
	}
	return f.Size
}

// Run is text sharing one format. A "\n" inside Text is a line break.
type Run struct {
	Text   string
	Format Format
}

// Block is one paragraph.
type Block struct {
	Runs []Run
}

// Text returns the block's text without formatting.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Len returns the block length in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += len([]rune(r.Text))
	}
	return n
}

// Document is a sequence of paragraphs.
type Document struct {
	Blocks []Block
}

// PlainText joins the blocks with newlines.
func (d Document) PlainText() string {
	parts := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		parts[i] = b.Text()
	}
	return strings.Join(parts, "\n")
}

// Blank reports whether the document holds only whitespace and breaks.
func (d Document) Blank() bool {
	return strings.TrimSpace(d.PlainText()) == ""
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = Block{Runs: append([]Run(nil), b.Runs...)}
	}
	return out
}

// Pos addresses a rune offset inside a block.
type Pos struct {
	Block  int
	Offset int
}

// Before reports whether p sorts ahead of q.
func (p Pos) Before(q Pos) bool {
	if p.Block != q.Block {
		return p.Block < q.Block
	}
	return p.Offset < q.Offset
}

// Selection is an anchored range; Head is where the cursor sits.
type Selection struct {
	Anchor Pos
	Head   Pos
}

// Collapsed reports whether the selection is a bare cursor.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Head
}

// Ordered returns the selection bounds start first.
func (s Selection) Ordered() (Pos, Pos) {
	if s.Head.Before(s.Anchor) {
		return s.Head, s.Anchor
	}
	return s.Anchor, s.Head
}

// cell is one rune with its format; edits work on cells and compact back.
type cell struct {
	r rune
	f Format
}

func (b Block) cells() []cell {
	out := make([]cell, 0, b.Len())
	for _, run := range b.Runs {
		for _, r := range run.Text {
			out = append(out, cell{r: r, f: run.Format})
		}
	}
	return out
}

func fromCells(cells []cell) Block {
	var b Block
	for _, c := range cells {
		if n := len(b.Runs); n > 0 && b.Runs[n-1].Format == c.f {
			b.Runs[n-1].Text += string(c.r)
			continue
		}
		b.Runs = append(b.Runs, Run{Text: string(c.r), Format: c.f})
	}
	return b
}

// normalize merges adjacent runs of equal format, drops empty runs, clamps
// sizes and guarantees at least one block.
func (d *Document) normalize() {
	for i, b := range d.Blocks {
		cells := b.cells()
		for j := range cells {
			cells[j].f.Size = clampSize(cells[j].f.Size)
		}
		d.Blocks[i] = fromCells(cells)
	}
	if len(d.Blocks) == 0 {
		d.Blocks = []Block{{}}
	}
}

func clampSize(n int) int {
	if n == 0 {
		return 0
	}
	return clampLevel(n)
}

func clampLevel(n int) int {
	if n < MinFontLevel {
		return MinFontLevel
	}
	if n > MaxFontLevel {
		return MaxFontLevel
	}
	return n
}

// clamp keeps p inside the document.
func (d Document) clamp(p Pos) Pos {
	if p.Block < 0 {
		return Pos{}
	}
	if p.Block >= len(d.Blocks) {
		last := len(d.Blocks) - 1
		return Pos{Block: last, Offset: d.Blocks[last].Len()}
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := d.Blocks[p.Block].Len(); p.Offset > n {
		p.Offset = n
	}
	return p
}

// end is the position after the last rune.
func (d Document) end() Pos {
	last := len(d.Blocks) - 1
	return Pos{Block: last, Offset: d.Blocks[last].Len()}
}

// eachRange calls fn with every block touched by [start, end) and the cell
// bounds inside it.
func (d *Document) eachRange(start, end Pos, fn func(block int, cells []cell, lo, hi int)) {
	for bi := start.Block; bi <= end.Block; bi++ {
		cells := d.Blocks[bi].cells()
		lo, hi := 0, len(cells)
		if bi == start.Block {
			lo = start.Offset
		}
		if bi == end.Block {
			hi = end.Offset
		}
		fn(bi, cells, lo, hi)
	}
}

// deleteRange removes [start, end) and joins the edge blocks.
func (d *Document) deleteRange(start, end Pos) {
	first := d.Blocks[start.Block].cells()
	last := d.Blocks[end.Block].cells()
	joined := append(append([]cell(nil), first[:start.Offset]...), last[end.Offset:]...)

	blocks := append([]Block(nil), d.Blocks[:start.Block]...)
	blocks = append(blocks, fromCells(joined))
	blocks = append(blocks, d.Blocks[end.Block+1:]...)
	d.Blocks = blocks
}

// insert places text at p and returns the position after it.
func (d *Document) insert(p Pos, text string, f Format) Pos {
	cells := d.Blocks[p.Block].cells()
	add := make([]cell, 0, len(text))
	for _, r := range text {
		add = append(add, cell{r: r, f: f})
	}
	out := append(append(append([]cell(nil), cells[:p.Offset]...), add...), cells[p.Offset:]...)
	d.Blocks[p.Block] = fromCells(out)
	return Pos{Block: p.Block, Offset: p.Offset + len(add)}
}

// split breaks the block at p into two paragraphs.
func (d *Document) split(p Pos) Pos {
	cells := d.Blocks[p.Block].cells()
	head := fromCells(cells[:p.Offset])
	tail := fromCells(cells[p.Offset:])

	blocks := append([]Block(nil), d.Blocks[:p.Block]...)
	blocks = append(blocks, head, tail)
	blocks = append(blocks, d.Blocks[p.Block+1:]...)
	d.Blocks = blocks
	return Pos{Block: p.Block + 1}
}
