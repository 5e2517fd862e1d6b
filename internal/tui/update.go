package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/prefs"
)

// tickMsg is sent every second for time updates
type tickMsg time.Time

// noticeMsg carries a controller notice
type noticeMsg notelist.Notice

// adsMsg reports the result of an ad bridge call
type adsMsg struct {
	op  string
	err error
}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForNotice(), m.startAds())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForNotice listens for controller notices
func (m Model) waitForNotice() tea.Cmd {
	if m.notices == nil {
		return nil
	}
	ch := m.notices.C()
	return func() tea.Msg {
		return noticeMsg(<-ch)
	}
}

// startAds initializes the ad bridge and shows the banner
func (m Model) startAds() tea.Cmd {
	if m.ads == nil {
		return nil
	}
	ads, ctx := m.ads, m.ctx
	return func() tea.Msg {
		if err := ads.Initialize(ctx); err != nil {
			return adsMsg{op: "initialize", err: err}
		}
		return adsMsg{op: "banner", err: ads.ShowBanner(ctx)}
	}
}

// showInterstitial asks for a full-screen ad; the cooldown decides
func (m Model) showInterstitial() tea.Cmd {
	if m.ads == nil || !m.ads.Initialized() {
		return nil
	}
	ads, ctx := m.ads, m.ctx
	return func() tea.Msg {
		_, err := ads.ShowInterstitial(ctx, false)
		return adsMsg{op: "interstitial", err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		if m.notice.Message != "" && m.now.Sub(m.noticeAt) > noticeTTL {
			m.notice = notelist.Notice{}
		}
		// Continue ticking for time updates
		return m, tickCmd()

	case noticeMsg:
		m.notice = notelist.Notice(msg)
		m.noticeAt = m.now
		return m, m.waitForNotice()

	case adsMsg:
		if msg.err != nil {
			m.log.Warn("Ad bridge call failed", logger.F("op", msg.op), logger.F("error", msg.err))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeEditor:
			return m.updateEditor(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeImport:
			return m.updateImport(msg)
		case ModeSort, ModeColor, ModeBulk, ModeLanguage:
			return m.updateMenu(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeList
			return m, nil
		}

		// List mode key handling
		return m.handleListKeys(msg)
	}

	return m, nil
}

// handleListKeys handles key presses in list mode
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.view())-1 {
			m.cursor++
		}

	case msg.String() == "g":
		m.cursor = 0

	case msg.String() == "G":
		m.cursor = len(m.view()) - 1
		m.clampCursor()

	case key.Matches(msg, keys.MoveUp):
		m.handleReorder(-1)

	case key.Matches(msg, keys.MoveDown):
		m.handleReorder(1)

	case key.Matches(msg, keys.Add):
		return m.startAdd()

	case key.Matches(msg, keys.Enter):
		return m.openEditor(false)

	case key.Matches(msg, keys.Edit):
		return m.openEditor(true)

	case key.Matches(msg, keys.Delete):
		if n, ok := m.current(); ok {
			return m.startDelete([]int64{n.ID})
		}

	case key.Matches(msg, keys.Color):
		if _, ok := m.current(); ok {
			m.openMenu(ModeColor)
		}

	case key.Matches(msg, keys.ToDo):
		m.handleToDo()

	case key.Matches(msg, keys.Select):
		if n, ok := m.current(); ok {
			m.notes.ToggleSelected(n.ID)
		}

	case key.Matches(msg, keys.SelectAll):
		m.notes.ToggleSelectAll()

	case key.Matches(msg, keys.Bulk):
		if len(m.notes.Selected()) == 0 {
			m.say(notelist.LevelWarning, "Select notes with space first")
			return m, nil
		}
		m.openMenu(ModeBulk)

	case key.Matches(msg, keys.Sort):
		m.notes.ToggleSortMenu()
		m.openMenu(ModeSort)

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Import):
		m.mode = ModeImport
		m.path.SetValue("")
		m.path.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Language):
		m.openMenu(ModeLanguage)

	case key.Matches(msg, keys.Escape):
		if m.notes.State().SearchTerm != "" {
			m.notes.ToggleSearch()
			m.search.SetValue("")
			m.clampCursor()
			m.say(notelist.LevelInfo, "Search cleared")
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Refresh):
		m.handleRefresh()
	}

	return m, nil
}

// quit writes pending edits before leaving
func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.notes.Flush(m.ctx); err != nil {
		m.log.Error("Flush on quit failed", logger.F("error", err))
	}
	if m.ads != nil && m.ads.BannerVisible() {
		_ = m.ads.HideBanner(m.ctx)
	}
	return m, tea.Quit
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	n, err := m.notes.AddNote(m.ctx)
	if err != nil {
		m.say(notelist.LevelError, fmt.Sprintf("Could not add note: %v", err))
		return m, nil
	}
	m.search.SetValue("")
	m.cursor = 0
	m.focusID(n.ID)
	m.title.SetValue("")
	m.mode = ModeEditor
	m.title.Focus()
	return m, textinput.Blink
}

func (m *Model) handleReorder(delta int) {
	from := m.cursor
	to := from + delta
	if to < 0 || to >= len(m.view()) {
		return
	}
	n, _ := m.current()
	if err := m.notes.Reorder(m.ctx, from, to); err != nil {
		m.log.Warn("Reorder failed", logger.F("error", err))
		return
	}
	m.focusID(n.ID)
}

func (m *Model) handleToDo() {
	n, ok := m.current()
	if !ok {
		return
	}
	on := !n.IsToDoList()
	if err := m.notes.SetToDoList(m.ctx, n.ID, on); err != nil {
		return
	}
	if on {
		m.say(notelist.LevelInfo, "Shown as a to-do list")
	} else {
		m.say(notelist.LevelInfo, "Shown as plain text")
	}
}

func (m *Model) handleRefresh() {
	var id int64
	if n, ok := m.current(); ok {
		id = n.ID
	}
	if err := m.notes.Flush(m.ctx); err != nil {
		m.log.Warn("Flush before reload failed", logger.F("error", err))
	}
	if err := m.notes.Load(m.ctx); err != nil {
		return
	}
	m.focusID(id)
	m.say(notelist.LevelInfo, fmt.Sprintf("Loaded %d notes", len(m.notes.Notes())))
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	if !m.notes.State().ShowSearch {
		m.notes.ToggleSearch()
	}
	m.mode = ModeSearch
	m.search.SetValue(m.notes.State().SearchTerm)
	m.search.CursorEnd()
	m.search.Focus()
	return m, textinput.Blink
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		// Hiding the search box clears the term
		m.notes.ToggleSearch()
		m.search.SetValue("")
		m.search.Blur()
		m.mode = ModeList
		m.clampCursor()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.search.Blur()
		m.mode = ModeList
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// Live filter as user types
	m.notes.SetSearchTerm(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.path.Blur()
		m.mode = ModeList
		return m, nil

	case key.Matches(msg, keys.Enter):
		path := expandHome(strings.TrimSpace(m.path.Value()))
		m.path.Blur()
		m.mode = ModeList
		if path == "" {
			return m, nil
		}
		payload, err := os.ReadFile(path)
		if err != nil {
			m.log.Warn("Import file unreadable", logger.F("path", path), logger.F("error", err))
			m.say(notelist.LevelError, fmt.Sprintf("Import failed: %v", err))
			return m, nil
		}
		// The controller reports success or failure as a notice
		_, _ = m.notes.ImportNotes(m.ctx, payload)
		return m, nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// openMenu enters a picker with the cursor on the current choice
func (m *Model) openMenu(mode Mode) {
	m.back = ModeList
	m.mode = mode
	m.menuCursor = 0

	switch mode {
	case ModeSort:
		for i, s := range notelist.SortModes {
			if s == m.notes.State().Sort {
				m.menuCursor = i
			}
		}
	case ModeColor:
		if n, ok := m.current(); ok {
			for i, c := range model.Palette {
				if c == n.BgColor {
					m.menuCursor = i
				}
			}
		}
	case ModeLanguage:
		for i, tag := range prefs.Supported {
			if tag == m.language {
				m.menuCursor = i
			}
		}
	}
}

// menuLen is the number of choices in the open menu
func (m Model) menuLen() int {
	switch m.mode {
	case ModeSort:
		return len(notelist.SortModes)
	case ModeColor:
		return len(model.Palette)
	case ModeBulk:
		return len(bulkActions)
	case ModeLanguage:
		return len(prefs.Supported)
	}
	return 0
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
		if m.mode == ModeSort {
			m.notes.ToggleSortMenu()
		}
		m.mode = m.back
		return m, nil

	case key.Matches(msg, keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.menuCursor < m.menuLen()-1 {
			m.menuCursor++
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		return m.chooseMenu()
	}
	return m, nil
}

func (m Model) chooseMenu() (tea.Model, tea.Cmd) {
	choice := m.menuCursor
	mode := m.mode
	m.mode = m.back

	switch mode {
	case ModeSort:
		var id int64
		if n, ok := m.current(); ok {
			id = n.ID
		}
		if err := m.notes.SetSort(notelist.SortModes[choice]); err != nil {
			m.say(notelist.LevelError, err.Error())
			return m, nil
		}
		m.focusID(id)

	case ModeColor:
		n, ok := m.current()
		if !ok {
			return m, nil
		}
		// Failures arrive as controller notices
		_ = m.notes.SetColor(m.ctx, n.ID, model.Palette[choice])

	case ModeLanguage:
		if m.prefs == nil {
			return m, nil
		}
		tag, err := m.prefs.SetLanguage(m.ctx, prefs.Supported[choice].String())
		if err != nil {
			m.say(notelist.LevelError, fmt.Sprintf("Could not set language: %v", err))
			return m, nil
		}
		m.language = tag
		m.say(notelist.LevelInfo, "Language: "+prefs.DisplayName(tag))

	case ModeBulk:
		action := bulkActions[choice]
		ids := m.notes.Selected()
		if action == notelist.BulkRemove {
			return m.startDelete(ids)
		}
		if err := m.notes.BulkAction(m.ctx, action, ids); err != nil {
			return m, nil
		}
		return m, m.showInterstitial()
	}
	return m, nil
}

// startDelete removes ids, asking first when configured to
func (m Model) startDelete(ids []int64) (tea.Model, tea.Cmd) {
	if len(ids) == 0 {
		return m, nil
	}
	if m.confirm {
		m.pendingDelete = ids
		m.mode = ModeConfirmDelete
		return m, nil
	}
	m.deleteNotes(ids)
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := m.pendingDelete
	m.pendingDelete = nil
	m.mode = ModeList
	if msg.String() == "y" || msg.String() == "Y" {
		m.deleteNotes(ids)
		return m, nil
	}
	m.say(notelist.LevelInfo, "Cancelled")
	return m, nil
}

func (m *Model) deleteNotes(ids []int64) {
	if err := m.notes.RemoveMany(m.ctx, ids); err != nil {
		m.log.Warn("Delete stopped early", logger.F("error", err))
	} else if len(ids) == 1 {
		m.say(notelist.LevelInfo, "Deleted 1 note")
	} else {
		m.say(notelist.LevelInfo, fmt.Sprintf("Deleted %d notes", len(ids)))
	}
	m.clampCursor()
}
