package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/richtext"
)

// openEditor shows the note under the cursor; titleFirst focuses the title
func (m Model) openEditor(titleFirst bool) (tea.Model, tea.Cmd) {
	n, ok := m.current()
	if !ok {
		return m, nil
	}
	if err := m.notes.ShowDescription(m.ctx, n.ID); err != nil {
		m.say(notelist.LevelError, fmt.Sprintf("Could not open note: %v", err))
		return m, nil
	}
	m.title.SetValue(n.Title)
	m.title.CursorEnd()
	m.mode = ModeEditor
	if titleFirst {
		return m.focusTitle()
	}
	return m.focusBody()
}

func (m Model) focusTitle() (tea.Model, tea.Cmd) {
	m.notes.Focus(notelist.FieldTitle)
	m.title.Focus()
	return m, textinput.Blink
}

func (m Model) focusBody() (tea.Model, tea.Cmd) {
	m.notes.Focus(notelist.FieldDescription)
	m.title.Blur()
	return m, nil
}

// closeEditor commits and closes the open note; empty notes are purged
func (m Model) closeEditor() (tea.Model, tea.Cmd) {
	id := m.notes.EditingID()
	if id != 0 {
		if err := m.notes.HideDescription(m.ctx, id); err != nil {
			m.log.Warn("Failed to close note", logger.F("id", id), logger.F("error", err))
		}
	}
	m.title.Blur()
	m.mode = ModeList
	m.focusID(id)
	return m, nil
}

// updateEditor handles keys while a note is open
func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.notes.EditingID()
	if id == 0 {
		m.mode = ModeList
		return m, nil
	}

	switch {
	case key.Matches(msg, editorKeys.Close):
		return m.closeEditor()

	case key.Matches(msg, editorKeys.Save):
		if err := m.notes.SaveNow(m.ctx, id); err != nil {
			m.log.Warn("Explicit save failed", logger.F("id", id), logger.F("error", err))
			return m, nil
		}
		m.say(notelist.LevelInfo, "Saved")
		return m, nil

	case key.Matches(msg, editorKeys.Tab):
		if m.notes.State().Focus == notelist.FieldTitle {
			return m.focusBody()
		}
		return m.focusTitle()
	}

	if m.notes.State().Focus == notelist.FieldTitle {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyDown {
			return m.focusBody()
		}
		before := m.title.Value()
		var cmd tea.Cmd
		m.title, cmd = m.title.Update(msg)
		if after := m.title.Value(); after != before {
			if err := m.notes.UpdateTitle(id, after); err != nil {
				m.log.Warn("Title update failed", logger.F("id", id), logger.F("error", err))
			}
		}
		return m, cmd
	}

	ed := m.notes.Editor()
	if ed == nil {
		return m, nil
	}
	if editBody(ed, msg) {
		// Commit on every change so the debounced save sees it
		m.notes.BlurEditor()
	}
	return m, nil
}

// editBody applies one key to the rich text session and reports whether the
// content may have changed.
func editBody(ed *richtext.Session, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, editorKeys.Bold):
		ed.ToggleBold()
	case key.Matches(msg, editorKeys.Italic):
		ed.ToggleItalic()
	case key.Matches(msg, editorKeys.Underline):
		ed.ToggleUnderline()
	case key.Matches(msg, editorKeys.Strike):
		ed.ToggleStrike()
	case key.Matches(msg, editorKeys.Bigger):
		ed.IncreaseFont()
	case key.Matches(msg, editorKeys.Smaller):
		ed.DecreaseFont()
	case key.Matches(msg, editorKeys.Clear):
		ed.ClearSelectionFormatting()
	case key.Matches(msg, editorKeys.Undo):
		return ed.Undo()
	case key.Matches(msg, editorKeys.SelectAll):
		ed.SelectAll()
		return false
	case key.Matches(msg, editorKeys.SoftBreak):
		ed.SoftBreak()
	default:
		return editKey(ed, msg)
	}
	return true
}

// editKey handles typing, deletion and cursor movement
func editKey(ed *richtext.Session, msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left":
		ed.MoveLeft(false)
	case "right":
		ed.MoveRight(false)
	case "up":
		ed.MoveUp(false)
	case "down":
		ed.MoveDown(false)
	case "home":
		ed.MoveHome(false)
	case "end":
		ed.MoveEnd(false)
	case "shift+left":
		ed.MoveLeft(true)
	case "shift+right":
		ed.MoveRight(true)
	case "shift+up":
		ed.MoveUp(true)
	case "shift+down":
		ed.MoveDown(true)
	case "shift+home":
		ed.MoveHome(true)
	case "shift+end":
		ed.MoveEnd(true)
	case "enter":
		ed.Break()
		return true
	case "backspace":
		ed.Backspace()
		return true
	case "delete":
		ed.Delete()
		return true
	default:
		switch msg.Type {
		case tea.KeyRunes:
			ed.Type(string(msg.Runes))
			return true
		case tea.KeySpace:
			ed.Type(" ")
			return true
		}
		return false
	}
	ed.KeyUp()
	return false
}

// renderBody draws the document with the selection and cursor
func renderBody(ed *richtext.Session, focused bool, width int) string {
	doc := ed.Document()
	start, end := ed.Selection().Ordered()
	head := ed.Selection().Head

	var b strings.Builder
	for bi, block := range doc.Blocks {
		off := 0
		for _, run := range block.Runs {
			style := runStyle(run.Format)
			for _, r := range run.Text {
				p := richtext.Pos{Block: bi, Offset: off}
				if focused && p == head {
					b.WriteString(CursorStyle.Render(cursorGlyph(r)))
				} else if !ed.Selection().Collapsed() && !p.Before(start) && p.Before(end) {
					b.WriteString(SelectionStyle.Inherit(style).Render(visible(r)))
				} else {
					b.WriteString(style.Render(visible(r)))
				}
				if r == '\n' {
					b.WriteByte('\n')
				}
				off++
			}
		}
		if focused && head == (richtext.Pos{Block: bi, Offset: off}) {
			b.WriteString(CursorStyle.Render(" "))
		}
		if bi < len(doc.Blocks)-1 {
			b.WriteByte('\n')
		}
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func runStyle(f richtext.Format) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(f.Bold || f.Level() > richtext.DefaultFontLevel+1).
		Italic(f.Italic).
		Underline(f.Underline).
		Strikethrough(f.Strike)
	if f.Level() < richtext.DefaultFontLevel {
		s = s.Faint(true)
	}
	return s
}

// visible maps a line break to nothing; the newline is written separately
func visible(r rune) string {
	if r == '\n' {
		return ""
	}
	return string(r)
}

func cursorGlyph(r rune) string {
	if r == '\n' {
		return " "
	}
	return string(r)
}

// renderToolbar shows the pressed state of the formatting commands
func renderToolbar(f richtext.Flags) string {
	button := func(on bool, label string) string {
		if on {
			return ToolbarOnStyle.Render(" " + label + " ")
		}
		return ToolbarOffStyle.Render(" " + label + " ")
	}
	undo := "undo"
	if !f.CanUndo {
		undo = HelpStyle.Faint(true).Render("undo")
	}
	return strings.Join([]string{
		button(f.Bold, "B"),
		button(f.Italic, "I"),
		button(f.Underline, "U"),
		button(f.Strike, "S"),
		ToolbarOffStyle.Render(fmt.Sprintf(" size %d ", f.FontLevel)),
		ToolbarOffStyle.Render(" " + undo + " "),
	}, "")
}
