package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/notepado/internal/ads"
	"github.com/existflow/notepado/internal/clock"
	"github.com/existflow/notepado/internal/db"
	"github.com/existflow/notepado/internal/docstore"
	"github.com/existflow/notepado/internal/kv"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/notes"
	"github.com/existflow/notepado/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 10, 8, 30, 0, 0, time.Local)

type fixture struct {
	repo   *notes.Repository
	notes  *notelist.Controller
	clock  *clock.Fake
	export *bytes.Buffer
}

func newFixture(t *testing.T, seed ...string) *fixture {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	ctx := context.Background()
	repo := notes.NewRepository(docstore.New(database), kv.New(database), nil)
	var order []int64
	for i, title := range seed {
		n := model.NewNote(int64(i+1), start.Add(time.Duration(i)*time.Minute))
		n.Title = title
		require.NoError(t, repo.Save(ctx, n))
		order = append(order, n.ID)
	}
	require.NoError(t, repo.PersistOrder(ctx, order))

	f := &fixture{repo: repo, clock: clock.NewFake(start), export: &bytes.Buffer{}}
	f.notes = notelist.New(repo, notelist.Options{
		Clock: f.clock,
		Sink:  platform.WriterSink{W: f.export},
	})
	require.NoError(t, f.notes.Load(ctx))
	t.Cleanup(f.notes.Close)
	return f
}

func (f *fixture) model(confirm bool) Model {
	m := NewModel(Options{Notes: f.notes, Confirm: confirm})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typed(s string) []tea.KeyMsg {
	out := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		out = append(out, runes(string(r)))
	}
	return out
}

func titles(list []model.Note) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Title
	}
	return out
}

func TestAddNoteFromList(t *testing.T) {
	f := newFixture(t)
	m := f.model(false)

	m = press(m, runes("a"))
	assert.Equal(t, ModeEditor, m.mode)
	assert.Equal(t, notelist.FieldTitle, f.notes.State().Focus)

	m = press(m, typed("Groceries")...)
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
	require.NoError(t, f.notes.Flush(context.Background()))

	stored, err := f.repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Groceries", stored[0].Title)
}

func TestAbandonedAddLeavesNothing(t *testing.T) {
	f := newFixture(t)
	m := f.model(false)

	m = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
	assert.Empty(t, f.notes.Notes())

	stored, err := f.repo.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBodyFormatting(t *testing.T) {
	f := newFixture(t, "Shopping")
	m := f.model(false)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ModeEditor, m.mode)
	assert.Equal(t, notelist.FieldDescription, f.notes.State().Focus)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlB})
	m = press(m, typed("milk")...)
	assert.True(t, f.notes.Editor().Flags().Bold)

	n, ok := f.notes.Note(1)
	require.True(t, ok)
	assert.Contains(t, n.Description, "<b>milk</b>")
	assert.Equal(t, 1, f.notes.Pending())

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	n, _ = f.notes.Note(1)
	assert.Contains(t, n.Description, "mil")
	assert.NotContains(t, n.Description, "milk")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Zero(t, f.notes.Pending())
	assert.Equal(t, "Saved", m.notice.Message)
}

func TestTabMovesBetweenTitleAndBody(t *testing.T) {
	f := newFixture(t, "Shopping")
	m := f.model(false)

	m = press(m, runes("e"))
	assert.Equal(t, notelist.FieldTitle, f.notes.State().Focus)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, notelist.FieldDescription, f.notes.State().Focus)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, notelist.FieldTitle, f.notes.State().Focus)

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	n, _ := f.notes.Note(1)
	assert.Equal(t, "Shoppin", n.Title)
}

func TestSearchFiltersAndClears(t *testing.T) {
	f := newFixture(t, "Groceries", "Work", "Garden")
	m := f.model(false)

	m = press(m, runes("/"))
	assert.Equal(t, ModeSearch, m.mode)
	m = press(m, runes("g"))
	assert.Len(t, m.view(), 3, "one character does not filter")

	m = press(m, runes("r"))
	assert.Equal(t, []string{"Groceries"}, titles(m.view()))

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeList, m.mode)
	assert.Empty(t, f.notes.State().SearchTerm)
	assert.Len(t, m.view(), 3)
}

func TestReorderFollowsNote(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	m := f.model(false)

	m = press(m, runes("J"))
	assert.Equal(t, []string{"B", "A", "C"}, titles(m.view()))
	assert.Equal(t, 1, m.cursor)

	m = press(m, runes("K"), runes("K"))
	assert.Equal(t, []string{"A", "B", "C"}, titles(m.view()))
	assert.Equal(t, 0, m.cursor)
}

func TestSortMenu(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	m := f.model(false)

	m = press(m, runes("s"))
	require.Equal(t, ModeSort, m.mode)
	assert.True(t, f.notes.State().ShowSort)

	// created-newest is second in the menu
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeList, m.mode)
	assert.Equal(t, notelist.SortCreatedNewest, f.notes.State().Sort)
	assert.False(t, f.notes.State().ShowSort)
	assert.Equal(t, []string{"C", "B", "A"}, titles(m.view()))
}

func TestColorPicker(t *testing.T) {
	f := newFixture(t, "A")
	m := f.model(false)

	m = press(m, runes("c"), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeList, m.mode)
	n, _ := f.notes.Note(1)
	assert.Equal(t, model.ColorRed, n.BgColor)
}

func TestDeleteAsksFirst(t *testing.T) {
	f := newFixture(t, "A", "B")
	m := f.model(true)

	m = press(m, runes("d"))
	require.Equal(t, ModeConfirmDelete, m.mode)
	m = press(m, runes("n"))
	assert.Len(t, f.notes.Notes(), 2)

	m = press(m, runes("d"), runes("y"))
	assert.Equal(t, ModeList, m.mode)
	assert.Equal(t, []string{"B"}, titles(f.notes.Notes()))
}

func TestBulkExportSelected(t *testing.T) {
	f := newFixture(t, "A", "B", "C")
	m := f.model(false)

	m = press(m, runes("b"))
	assert.Equal(t, ModeList, m.mode, "bulk menu needs a selection")

	m = press(m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []int64{1, 3}, f.notes.Selected())

	m = press(m, runes("b"))
	require.Equal(t, ModeBulk, m.mode)
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeList, m.mode)

	var exported []model.Note
	require.NoError(t, json.Unmarshal(f.export.Bytes(), &exported))
	assert.Equal(t, []string{"A", "C"}, titles(exported))
}

func TestSelectAllToggles(t *testing.T) {
	f := newFixture(t, "A", "B")
	m := f.model(false)

	m = press(m, runes("A"))
	assert.True(t, f.notes.AllSelected())
	m = press(m, runes("A"))
	assert.Empty(t, f.notes.Selected())
}

func TestNoticesReachStatusLine(t *testing.T) {
	f := newFixture(t, "A")
	m := f.model(false)

	next, _ := m.Update(noticeMsg{Level: notelist.LevelError, Message: "Could not save note: disk full"})
	m = next.(Model)
	assert.Contains(t, m.View(), "Could not save note: disk full")

	next, _ = m.Update(tickMsg(m.now.Add(noticeTTL + time.Second)))
	m = next.(Model)
	assert.Empty(t, m.notice.Message)
}

func TestNoticesDropOldest(t *testing.T) {
	n := NewNotices(2)
	n.Notify(notelist.Notice{Message: "one"})
	n.Notify(notelist.Notice{Message: "two"})
	n.Notify(notelist.Notice{Message: "three"})

	assert.Equal(t, "two", (<-n.C()).Message)
	assert.Equal(t, "three", (<-n.C()).Message)
}

func TestAdsStartShowsBanner(t *testing.T) {
	f := newFixture(t, "A")
	manager := ads.NewManager(ads.NopBridge{}, ads.Options{Clock: f.clock})
	m := NewModel(Options{Notes: f.notes, Ads: manager})

	msg := m.startAds()()
	result, ok := msg.(adsMsg)
	require.True(t, ok)
	require.NoError(t, result.err)
	assert.True(t, manager.BannerVisible())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, next.(Model).View(), "premium")
}

func TestViewListsNotes(t *testing.T) {
	f := newFixture(t, "Groceries", "Work")
	m := f.model(false)

	out := m.View()
	assert.Contains(t, out, "Notepado (2 notes")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Work")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Grocer…", Truncate("Groceries", 7))
	assert.Equal(t, "日本…", Truncate("日本語テキスト", 5))
	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "", Truncate("abc", 0))

	n := model.NewNote(1, start)
	assert.Equal(t, "3 minutes ago", Modified(n, start.Add(3*time.Minute)))
	assert.Equal(t, "-", Modified(model.Note{}, start))
}
