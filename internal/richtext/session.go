package richtext

import "strings"

// Commander is the set of formatting commands the editor exposes.
type Commander interface {
	ToggleBold()
	ToggleItalic()
	ToggleUnderline()
	ToggleStrike()
	SetFontLevel(level int)
	ClearSelectionFormatting()
}

// Flags mirror the pressed state of the toolbar.
type Flags struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	FontLevel int
	CanUndo   bool
}

// Session is the editing state of the one note open in the editor.
// It is not safe for concurrent use.
type Session struct {
	doc       Document
	sel       Selection
	pending   *Format
	fontLevel int
	history   *History
	flags     Flags
	onCommit  func(markup string)
}

var _ Commander = (*Session)(nil)

// NewSession opens markup for editing. onCommit receives the content on Blur
// and may be nil.
func NewSession(markup string, onCommit func(markup string)) *Session {
	s := &Session{
		doc:       Parse(markup),
		fontLevel: DefaultFontLevel,
		history:   NewHistory(HistoryLimit),
		onCommit:  onCommit,
	}
	s.sel = Selection{Anchor: s.doc.end(), Head: s.doc.end()}
	s.history.Push(s.doc.HTML())
	s.refresh()
	return s
}

// Document returns a copy of the current content.
func (s *Session) Document() Document { return s.doc.Clone() }

// Selection returns the current selection.
func (s *Session) Selection() Selection { return s.sel }

// HTML returns the canonical markup of the current content.
func (s *Session) HTML() string { return s.doc.HTML() }

// Markup is the committed form: blank content collapses to "".
func (s *Session) Markup() string {
	if s.doc.Blank() {
		return ""
	}
	return s.doc.HTML()
}

// Flags returns the toolbar state as of the last interaction.
func (s *Session) Flags() Flags { return s.flags }

// FontLevel returns the level the size controls act from.
func (s *Session) FontLevel() int { return s.fontLevel }

func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// Click places the cursor and refreshes the flags.
func (s *Session) Click(p Pos) {
	p = s.doc.clamp(p)
	s.setCursor(p)
	s.refresh()
}

// KeyUp refreshes the flags after a key release.
func (s *Session) KeyUp() { s.refresh() }

// Select sets an explicit selection.
func (s *Session) Select(sel Selection) {
	s.sel = Selection{Anchor: s.doc.clamp(sel.Anchor), Head: s.doc.clamp(sel.Head)}
	s.pending = nil
}

// SelectAll selects the whole document.
func (s *Session) SelectAll() {
	s.Select(Selection{Anchor: Pos{}, Head: s.doc.end()})
}

// Type inserts text at the cursor, replacing any selection. Newlines start
// new paragraphs.
func (s *Session) Type(text string) {
	if text == "" {
		return
	}
	f := s.typingFormat()
	s.deleteSelection()
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			s.setCursor(s.doc.split(s.sel.Head))
		}
		if part != "" {
			s.setCursor(s.doc.insert(s.sel.Head, part, f))
		}
	}
	s.keepPending(f)
	s.edited()
}

// Break splits the paragraph at the cursor.
func (s *Session) Break() {
	f := s.typingFormat()
	s.deleteSelection()
	s.setCursor(s.doc.split(s.sel.Head))
	s.keepPending(f)
	s.edited()
}

// SoftBreak inserts a line break inside the paragraph.
func (s *Session) SoftBreak() {
	f := s.typingFormat()
	s.deleteSelection()
	s.setCursor(s.doc.insert(s.sel.Head, "\n", f))
	s.keepPending(f)
	s.edited()
}

// Backspace deletes the selection or the rune before the cursor, joining
// paragraphs at a block start.
func (s *Session) Backspace() {
	if !s.sel.Collapsed() {
		s.deleteSelection()
		s.edited()
		return
	}
	head := s.sel.Head
	switch {
	case head.Offset > 0:
		s.doc.deleteRange(Pos{Block: head.Block, Offset: head.Offset - 1}, head)
		s.setCursor(Pos{Block: head.Block, Offset: head.Offset - 1})
	case head.Block > 0:
		prev := Pos{Block: head.Block - 1, Offset: s.doc.Blocks[head.Block-1].Len()}
		s.doc.deleteRange(prev, head)
		s.setCursor(prev)
	default:
		return
	}
	s.edited()
}

// Delete removes the selection or the rune after the cursor.
func (s *Session) Delete() {
	if !s.sel.Collapsed() {
		s.deleteSelection()
		s.edited()
		return
	}
	head := s.sel.Head
	n := s.doc.Blocks[head.Block].Len()
	switch {
	case head.Offset < n:
		s.doc.deleteRange(head, Pos{Block: head.Block, Offset: head.Offset + 1})
	case head.Block < len(s.doc.Blocks)-1:
		s.doc.deleteRange(head, Pos{Block: head.Block + 1})
	default:
		return
	}
	s.setCursor(head)
	s.edited()
}

// MoveLeft moves the cursor one rune back; extend grows the selection.
func (s *Session) MoveLeft(extend bool) {
	if !extend && !s.sel.Collapsed() {
		start, _ := s.sel.Ordered()
		s.setCursor(start)
		return
	}
	h := s.sel.Head
	switch {
	case h.Offset > 0:
		h.Offset--
	case h.Block > 0:
		h = Pos{Block: h.Block - 1, Offset: s.doc.Blocks[h.Block-1].Len()}
	}
	s.moveHead(h, extend)
}

// MoveRight moves the cursor one rune forward.
func (s *Session) MoveRight(extend bool) {
	if !extend && !s.sel.Collapsed() {
		_, end := s.sel.Ordered()
		s.setCursor(end)
		return
	}
	h := s.sel.Head
	switch {
	case h.Offset < s.doc.Blocks[h.Block].Len():
		h.Offset++
	case h.Block < len(s.doc.Blocks)-1:
		h = Pos{Block: h.Block + 1}
	}
	s.moveHead(h, extend)
}

// MoveUp moves to the previous paragraph keeping the offset where possible.
func (s *Session) MoveUp(extend bool) {
	h := s.sel.Head
	if h.Block == 0 {
		h.Offset = 0
	} else {
		h = s.doc.clamp(Pos{Block: h.Block - 1, Offset: h.Offset})
	}
	s.moveHead(h, extend)
}

// MoveDown moves to the next paragraph keeping the offset where possible.
func (s *Session) MoveDown(extend bool) {
	h := s.sel.Head
	if h.Block == len(s.doc.Blocks)-1 {
		h.Offset = s.doc.Blocks[h.Block].Len()
	} else {
		h = s.doc.clamp(Pos{Block: h.Block + 1, Offset: h.Offset})
	}
	s.moveHead(h, extend)
}

// MoveHome moves to the start of the paragraph.
func (s *Session) MoveHome(extend bool) {
	s.moveHead(Pos{Block: s.sel.Head.Block}, extend)
}

// MoveEnd moves to the end of the paragraph.
func (s *Session) MoveEnd(extend bool) {
	b := s.sel.Head.Block
	s.moveHead(Pos{Block: b, Offset: s.doc.Blocks[b].Len()}, extend)
}

func (s *Session) ToggleBold() {
	s.toggle(func(f *Format) *bool { return &f.Bold })
}

func (s *Session) ToggleItalic() {
	s.toggle(func(f *Format) *bool { return &f.Italic })
}

func (s *Session) ToggleUnderline() {
	s.toggle(func(f *Format) *bool { return &f.Underline })
}

func (s *Session) ToggleStrike() {
	s.toggle(func(f *Format) *bool { return &f.Strike })
}

// SetFontLevel applies a size level, clamped to 1..7, to the selection or to
// the text typed next.
func (s *Session) SetFontLevel(level int) {
	level = clampLevel(level)
	s.fontLevel = level
	if s.sel.Collapsed() {
		f := s.typingFormat()
		f.Size = level
		s.pending = &f
		s.refresh()
		return
	}
	start, end := s.sel.Ordered()
	s.doc.eachRange(start, end, func(bi int, cells []cell, lo, hi int) {
		for i := lo; i < hi; i++ {
			cells[i].f.Size = level
		}
		s.doc.Blocks[bi] = fromCells(cells)
	})
	s.edited()
	s.refresh()
}

func (s *Session) IncreaseFont() { s.SetFontLevel(s.fontLevel + 1) }

func (s *Session) DecreaseFont() { s.SetFontLevel(s.fontLevel - 1) }

// ClearSelectionFormatting strips formatting from the selection. A selection
// inside a single paragraph flattens that whole paragraph; a selection across
// paragraphs clears only the selected range. Line breaks are kept.
func (s *Session) ClearSelectionFormatting() {
	if s.sel.Collapsed() {
		return
	}
	start, end := s.sel.Ordered()
	if start.Block == end.Block {
		cells := s.doc.Blocks[start.Block].cells()
		for i := range cells {
			cells[i].f = Format{}
		}
		s.doc.Blocks[start.Block] = fromCells(cells)
	} else {
		s.doc.eachRange(start, end, func(bi int, cells []cell, lo, hi int) {
			for i := lo; i < hi; i++ {
				cells[i].f = Format{}
			}
			s.doc.Blocks[bi] = fromCells(cells)
		})
	}
	s.edited()
	s.refresh()
}

// Undo reverts to the previous snapshot. It does nothing when there is no
// earlier state.
func (s *Session) Undo() bool {
	prev, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.doc = Parse(prev)
	s.setCursor(s.doc.end())
	s.refresh()
	return true
}

// Blur commits the content and returns what was committed.
func (s *Session) Blur() string {
	markup := s.Markup()
	if s.onCommit != nil {
		s.onCommit(markup)
	}
	return markup
}

func (s *Session) toggle(attr func(*Format) *bool) {
	if s.sel.Collapsed() {
		f := s.typingFormat()
		*attr(&f) = !*attr(&f)
		s.pending = &f
		s.refresh()
		return
	}

	start, end := s.sel.Ordered()
	all := true
	s.doc.eachRange(start, end, func(_ int, cells []cell, lo, hi int) {
		for i := lo; i < hi; i++ {
			if !*attr(&cells[i].f) {
				all = false
			}
		}
	})
	s.doc.eachRange(start, end, func(bi int, cells []cell, lo, hi int) {
		for i := lo; i < hi; i++ {
			*attr(&cells[i].f) = !all
		}
		s.doc.Blocks[bi] = fromCells(cells)
	})
	s.edited()
	s.refresh()
}

// typingFormat is the format new text takes at the cursor.
func (s *Session) typingFormat() Format {
	if s.pending != nil {
		return *s.pending
	}
	start, _ := s.sel.Ordered()
	cells := s.doc.Blocks[start.Block].cells()
	switch {
	case start.Offset > 0:
		return cells[start.Offset-1].f
	case len(cells) > 0:
		return cells[0].f
	}
	return Format{}
}

// selectionFormat reports attributes set across the whole selection.
func (s *Session) selectionFormat() Format {
	if s.sel.Collapsed() {
		return s.typingFormat()
	}
	start, end := s.sel.Ordered()
	out := Format{Bold: true, Italic: true, Underline: true, Strike: true}
	first := true
	seen := false
	s.doc.eachRange(start, end, func(_ int, cells []cell, lo, hi int) {
		for i := lo; i < hi; i++ {
			seen = true
			f := cells[i].f
			out.Bold = out.Bold && f.Bold
			out.Italic = out.Italic && f.Italic
			out.Underline = out.Underline && f.Underline
			out.Strike = out.Strike && f.Strike
			if first {
				out.Size = f.Size
				first = false
			}
		}
	})
	if !seen {
		return s.typingFormat()
	}
	return out
}

func (s *Session) refresh() {
	f := s.selectionFormat()
	s.fontLevel = f.Level()
	s.flags = Flags{
		Bold:      f.Bold,
		Italic:    f.Italic,
		Underline: f.Underline,
		Strike:    f.Strike,
		FontLevel: s.fontLevel,
		CanUndo:   s.history.CanUndo(),
	}
}

func (s *Session) deleteSelection() {
	if s.sel.Collapsed() {
		return
	}
	start, end := s.sel.Ordered()
	s.doc.deleteRange(start, end)
	s.setCursor(start)
}

func (s *Session) setCursor(p Pos) {
	s.sel = Selection{Anchor: p, Head: p}
	s.pending = nil
}

func (s *Session) moveHead(h Pos, extend bool) {
	if extend {
		s.sel.Head = h
		s.pending = nil
		return
	}
	s.setCursor(h)
}

// keepPending carries a toggled format across the text just typed.
func (s *Session) keepPending(f Format) {
	s.pending = &f
}

// edited runs normalization after a recognized edit and records undo.
func (s *Session) edited() {
	s.doc.normalize()
	s.sel = Selection{Anchor: s.doc.clamp(s.sel.Anchor), Head: s.doc.clamp(s.sel.Head)}
	s.history.Push(s.doc.HTML())
	s.flags.CanUndo = s.history.CanUndo()
}
