package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/prefs"
	"github.com/existflow/notepado/internal/richtext"
)

// listWidth is the share of the screen the list takes while a note is open
const listWidth = 42

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	bodyHeight := m.height - 2
	if m.ads != nil && m.ads.BannerVisible() {
		bodyHeight--
	}

	var mainContent string
	if m.mode == ModeEditor && m.notes.EditingID() != 0 {
		list := m.renderList(listWidth, bodyHeight)
		editor := m.renderEditor(m.width-listWidth, bodyHeight)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, list, editor)
	} else {
		mainContent = m.renderList(m.width, bodyHeight)
	}

	// Menus and prompts float over the list
	var modal string
	switch m.mode {
	case ModeSort:
		modal = m.renderMenu("Sort by", sortLabels(), "")
	case ModeColor:
		modal = m.renderMenu("Background color", colorLabels(), "")
	case ModeBulk:
		modal = m.renderMenu(fmt.Sprintf("%d selected", len(m.notes.Selected())), bulkLabels(), "")
	case ModeLanguage:
		modal = m.renderMenu("Language", languageLabels(), prefs.DisplayName(m.language))
	case ModeConfirmDelete:
		modal = m.renderConfirm()
	case ModeImport:
		modal = m.renderImport()
	}
	if modal != "" {
		mainContent = lipgloss.Place(
			m.width, bodyHeight,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		mainContent = m.renderHelp(bodyHeight)
	}

	parts := []string{mainContent}
	if m.ads != nil && m.ads.BannerVisible() {
		parts = append(parts, BannerStyle.Width(m.width).Render("Ad · upgrade to premium to remove"))
	}
	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderList(width, height int) string {
	var s string
	state := m.notes.State()
	view := m.view()

	header := fmt.Sprintf("Notepado (%d notes, %s)", len(m.notes.Notes()), state.Sort.Label())
	s += HeaderStyle.Render(header) + "\n"
	if m.mode == ModeSearch || state.SearchTerm != "" {
		s += HelpStyle.Render("/") + m.search.View() + "\n"
	}
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(view) == 0 {
		if state.SearchTerm != "" {
			s += HelpStyle.Render("  No notes match.")
		} else {
			s += HelpStyle.Render("  No notes. Press 'a' to add one.")
		}
	}

	// Keep the cursor on screen
	rows := height - 6
	if rows < 1 {
		rows = 1
	}
	first := 0
	if m.cursor >= rows {
		first = m.cursor - rows + 1
	}

	ageWidth := 15
	titleWidth := width - ageWidth - 14
	if titleWidth < 8 {
		titleWidth = 8
	}

	for i := first; i < len(view) && i < first+rows; i++ {
		n := view[i]
		cursor := "  "
		style := NoteItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = NoteItemSelectedStyle
		}
		if n.ID == m.notes.EditingID() {
			style = style.Foreground(Primary)
		}

		mark := "  "
		if state.Selection[n.ID] {
			mark = NoteMarkedStyle.Render("✓ ")
		}
		icon := " "
		if n.IsToDoList() {
			icon = "☐"
		}

		title := n.Title
		if title == "" {
			title = richtext.PlainText(n.Description)
		}
		if title == "" {
			title = "(untitled)"
		}
		line := style.Render(cursor + PadRight(Truncate(title, titleWidth), titleWidth))
		age := HelpStyle.Render(PadRight(Truncate(Modified(n, m.now), ageWidth), ageWidth))

		s += mark + Swatch(n.BgColor) + " " + icon + line + " " + age + "\n"
	}
	if len(view) > first+rows {
		s += HelpStyle.Render(fmt.Sprintf("  ... +%d more", len(view)-first-rows)) + "\n"
	}

	return NoteListStyle.Width(width).Height(height).Render(s)
}

func (m Model) renderEditor(width, height int) string {
	id := m.notes.EditingID()
	n, _ := m.notes.Note(id)
	ed := m.notes.Editor()
	bodyFocused := m.notes.State().Focus == notelist.FieldDescription

	var s string
	s += m.title.View() + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-6)) + "\n"
	if ed != nil {
		s += renderToolbar(ed.Flags()) + "\n\n"
		s += renderBody(ed, bodyFocused, width-6) + "\n\n"
	}
	s += HelpStyle.Render("Created "+n.CreationDate) + "\n"
	s += HelpStyle.Render("Modified "+Modified(n, m.now)) + "\n"

	style := EditorStyle
	if bodyFocused {
		style = EditorFocusedStyle
	}
	return style.Width(width).Height(height).Render(s)
}

func (m Model) renderMenu(title string, labels []string, current string) string {
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title)
	if current != "" {
		content += "  " + HelpStyle.Render(current)
	}
	content += "\n\n"

	// Long menus scroll around the cursor
	const maxRows = 10
	first := 0
	if m.menuCursor >= maxRows {
		first = m.menuCursor - maxRows + 1
	}
	for i := first; i < len(labels) && i < first+maxRows; i++ {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == m.menuCursor {
			marker = "❯ "
			style = lipgloss.NewStyle().Bold(true).Foreground(Primary)
		}
		content += style.Render(marker+labels[i]) + "\n"
	}
	content += "\n" + HelpStyle.Render("↑↓:nav  Enter:select  Esc:close")
	return ModalStyle.Render(content)
}

func (m Model) renderConfirm() string {
	prompt := fmt.Sprintf("Delete %d notes?", len(m.pendingDelete))
	if len(m.pendingDelete) == 1 {
		title := "(untitled)"
		if n, ok := m.notes.Note(m.pendingDelete[0]); ok && n.Title != "" {
			title = n.Title
		}
		prompt = fmt.Sprintf("Delete \"%s\"?", Truncate(title, 40))
	}
	content := lipgloss.NewStyle().Bold(true).Foreground(NoticeError).Render(prompt) + "\n\n"
	content += HelpStyle.Render("y:delete  any other key:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderImport() string {
	content := lipgloss.NewStyle().Bold(true).Render("Import notes") + "\n\n"
	content += m.path.View() + "\n\n"
	content += HelpStyle.Render("Enter:import  Esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderStatusBar() string {
	// When in search mode, show the match count
	if m.mode == ModeSearch {
		term := m.search.Value()
		hint := fmt.Sprintf("[%d matches]  Enter:keep  Esc:clear", len(m.view()))
		if len([]rune(term)) < notelist.MinSearchRunes {
			hint = fmt.Sprintf("type at least %d characters  Esc:close", notelist.MinSearchRunes)
		}
		return StatusBarStyle.Width(m.width).Render(hint)
	}

	if m.notice.Message != "" {
		return StatusBarStyle.Width(m.width).Render(NoticeStyle(m.notice.Level).Render(m.notice.Message))
	}

	help := "a:add  enter:open  e:title  d:del  c:color  space:select  b:bulk  s:sort  /:search  J/K:move  ?:help  q:quit"
	if m.mode == ModeEditor {
		help = "ctrl+s:save  esc:close  tab:title/body  ctrl+b:bold  alt+i:italic  ctrl+u:underline  ctrl+t:strike  ctrl+]/ctrl+\\:size  ctrl+l:clear  ctrl+z:undo"
	}
	if selected := len(m.notes.Selected()); selected > 0 && m.mode == ModeList {
		help = fmt.Sprintf("%d selected  b:bulk  A:toggle all  %s", selected, help)
	}
	if pending := m.notes.Pending(); pending > 0 {
		help += "  ·  saving..."
	}
	return StatusBarStyle.Width(m.width).Render(Truncate(help, m.width-2))
}

func (m Model) renderHelp(height int) string {
	help := `
╭──── Keyboard Shortcuts ────╮
│                            │
│  List                      │
│  ────                      │
│  j/↓ k/↑  Move cursor      │
│  J/K      Move note        │
│  a        Add note         │
│  enter    Open note        │
│  e        Edit title       │
│  d        Delete           │
│  c        Color            │
│  t        To-do list       │
│  space    Select           │
│  A        Select all       │
│  b        Bulk actions     │
│  s        Sort             │
│  /        Search           │
│  i        Import           │
│  L        Language         │
│  R        Reload           │
│                            │
│  Editor                    │
│  ──────                    │
│  ctrl+b   Bold             │
│  alt+i    Italic           │
│  ctrl+u   Underline        │
│  ctrl+t   Strikethrough    │
│  ctrl+]   Bigger text      │
│  ctrl+\   Smaller text     │
│  ctrl+l   Clear format     │
│  ctrl+z   Undo             │
│  ctrl+s   Save now         │
│  esc      Close note       │
│                            │
╰────────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, help)
}

func sortLabels() []string {
	out := make([]string, len(notelist.SortModes))
	for i, mode := range notelist.SortModes {
		out[i] = mode.Label()
	}
	return out
}

func colorLabels() []string {
	out := make([]string, len(model.Palette))
	for i, c := range model.Palette {
		out[i] = Swatch(c) + " " + string(c)
	}
	return out
}

func bulkLabels() []string {
	return []string{"Export", "Copy to clipboard", "Delete"}
}

func languageLabels() []string {
	out := make([]string, len(prefs.Supported))
	for i, tag := range prefs.Supported {
		out[i] = fmt.Sprintf("%-4s %s", tag, prefs.DisplayName(tag))
	}
	return out
}
