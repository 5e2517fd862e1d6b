package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/notepado/internal/ads"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/existflow/notepado/internal/prefs"
	"golang.org/x/text/language"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeList Mode = iota
	ModeEditor
	ModeSearch
	ModeSort
	ModeColor
	ModeBulk
	ModeConfirmDelete
	ModeImport
	ModeLanguage
	ModeHelp
)

// noticeTTL is how long a notice stays in the status line
const noticeTTL = 5 * time.Second

// Options wires the model to the rest of the app
type Options struct {
	Context  context.Context
	Notes    *notelist.Controller
	Prefs    *prefs.Store
	Ads      *ads.Manager
	Notices  *Notices
	Confirm  bool // ask before deleting
	Language language.Tag
	Logger   *logger.Logger
}

// Model is the main TUI model
type Model struct {
	ctx      context.Context
	notes    *notelist.Controller
	prefs    *prefs.Store
	ads      *ads.Manager
	notices  *Notices
	log      *logger.Logger
	confirm  bool
	language language.Tag

	// UI state
	width      int
	height     int
	mode       Mode
	back       Mode // mode to return to from a menu
	cursor     int  // index into the derived view
	menuCursor int

	// Delete confirmation
	pendingDelete []int64

	// Inputs
	title  textinput.Model
	search textinput.Model
	path   textinput.Model

	// Status line
	notice   notelist.Notice
	noticeAt time.Time
	now      time.Time
}

var bulkActions = []notelist.BulkAction{notelist.BulkExport, notelist.BulkCopy, notelist.BulkRemove}

// NewModel creates a new TUI model
func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Language == language.Und {
		opts.Language = prefs.Fallback
	}
	log := opts.Logger.WithFields(logger.F("component", "tui"))
	log.Info("Initializing TUI model")

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256
	title.Width = 50

	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.CharLimit = 128
	search.Width = 40

	path := textinput.New()
	path.Placeholder = "Path to an exported .json file"
	path.CharLimit = 1024
	path.Width = 50

	m := Model{
		ctx:      opts.Context,
		notes:    opts.Notes,
		prefs:    opts.Prefs,
		ads:      opts.Ads,
		notices:  opts.Notices,
		log:      log,
		confirm:  opts.Confirm,
		language: opts.Language,
		mode:     ModeList,
		title:    title,
		search:   search,
		path:     path,
		now:      time.Now(),
	}

	log.Debug("TUI model initialized", logger.F("notes", len(m.notes.Notes())))
	return m
}

// view is the derived list as currently filtered and sorted
func (m *Model) view() []model.Note {
	return m.notes.View()
}

// current returns the note under the cursor
func (m *Model) current() (model.Note, bool) {
	view := m.view()
	if m.cursor < 0 || m.cursor >= len(view) {
		return model.Note{}, false
	}
	return view[m.cursor], true
}

// clampCursor keeps the cursor inside the view
func (m *Model) clampCursor() {
	n := len(m.view())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// focusID moves the cursor to the note with id, if it is in the view
func (m *Model) focusID(id int64) {
	for i, n := range m.view() {
		if n.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

// say shows a notice raised by the TUI itself
func (m *Model) say(level notelist.Level, msg string) {
	m.notice = notelist.Notice{Level: level, Message: msg}
	m.noticeAt = m.now
}
