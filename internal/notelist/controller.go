// Package notelist is the single authority over the in-memory note
// collection: its derived view, editor state, debounced saves, selection and
// bulk actions.
package notelist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/existflow/notepado/internal/clock"
	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/richtext"
)

// DefaultDebounce is the quiet period before a text edit is written.
const DefaultDebounce = 500 * time.Millisecond

// Repository is the persistence the controller drives.
type Repository interface {
	LoadAll(ctx context.Context) ([]model.Note, error)
	Export(ctx context.Context) ([]model.Note, error)
	Save(ctx context.Context, note model.Note) error
	Remove(ctx context.Context, id int64) error
	PersistOrder(ctx context.Context, ids []int64) error
}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	State     *State
	Clock     clock.Clock
	Debounce  time.Duration
	Notifier  Notifier
	Clipboard Clipboard
	Sink      Sink
	Logger    *logger.Logger
}

// pendingSave is the debounce handle of one note.
type pendingSave struct {
	timer clock.Timer
}

// Controller coordinates the note list. It is safe for concurrent use;
// debounce timers fire on their own goroutines.
type Controller struct {
	mu        sync.Mutex
	repo      Repository
	state     *State
	clock     clock.Clock
	debounce  time.Duration
	notifier  Notifier
	clipboard Clipboard
	sink      Sink
	log       *logger.Logger

	notes   []model.Note
	pending map[int64]*pendingSave
	editor  *richtext.Session
	closed  bool
}

// New creates a controller over repo.
func New(repo Repository, opts Options) *Controller {
	if opts.State == nil {
		opts.State = NewState()
	}
	if opts.State.Selection == nil {
		opts.State.Selection = make(map[int64]bool)
	}
	if _, ok := ParseSortMode(string(opts.State.Sort)); !ok {
		opts.State.Sort = SortManual
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	return &Controller{
		repo:      repo,
		state:     opts.State,
		clock:     opts.Clock,
		debounce:  opts.Debounce,
		notifier:  opts.Notifier,
		clipboard: opts.Clipboard,
		sink:      opts.Sink,
		log:       opts.Logger.WithFields(logger.F("component", "notelist")),
		pending:   make(map[int64]*pendingSave),
	}
}

// Load fills the collection from storage. On failure the list is empty and
// the error is both returned and shown to the user.
func (c *Controller) Load(ctx context.Context) error {
	notes, err := c.repo.LoadAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.notes = nil
		c.fail("Could not load notes", err)
		return err
	}
	c.notes = notes
	for id := range c.state.Selection {
		if c.indexLocked(id) < 0 {
			delete(c.state.Selection, id)
		}
	}
	c.log.Info("Notes loaded", logger.F("count", len(notes)))
	return nil
}

// Notes returns a copy of the canonical collection.
func (c *Controller) Notes() []model.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Note(nil), c.notes...)
}

// Note looks up one note.
func (c *Controller) Note(id int64) (model.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.notes[i], true
	}
	return model.Note{}, false
}

// State returns a copy of the application state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.snapshot()
}

// View is the filtered, sorted list as currently configured.
func (c *Controller) View() []model.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() []model.Note {
	mode := c.state.Sort
	if mode != SortManual {
		for _, n := range c.notes {
			if _, ok := model.ParseDate(n.CreationDate); !ok {
				c.log.Debug("Unparseable creation date sorts as oldest", logger.F("id", n.ID), logger.F("value", n.CreationDate))
			}
		}
	}
	return FilterAndSort(c.notes, c.state.SearchTerm, mode)
}

// SetSearchTerm changes the filter.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchTerm = term
}

// ToggleSearch shows or hides the search field. Hiding it clears the term.
func (c *Controller) ToggleSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ShowSearch = !c.state.ShowSearch
	if !c.state.ShowSearch {
		c.state.SearchTerm = ""
	}
}

// SetSort switches the sort mode and closes the sort menu.
func (c *Controller) SetSort(mode SortMode) error {
	if _, ok := ParseSortMode(string(mode)); !ok {
		return errs.New(errs.Validation, fmt.Sprintf("unknown sort mode %q", mode))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Sort = mode
	c.state.ShowSort = false
	return nil
}

// ToggleSortMenu shows or hides the sort menu.
func (c *Controller) ToggleSortMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ShowSort = !c.state.ShowSort
}

// Focus records which editor field has focus. Leaving the description
// commits it.
func (c *Controller) Focus(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Focus == FieldDescription && field != FieldDescription && c.editor != nil {
		c.editor.Blur()
	}
	c.state.Focus = field
}

// Editor returns the rich-text session of the open note, or nil. The session
// is driven by a single UI goroutine.
func (c *Controller) Editor() *richtext.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor
}

// EditingID returns the open note id, 0 when collapsed.
func (c *Controller) EditingID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.EditingID
}

// ShowDescription opens the editor for id. Any other open note is closed
// first, which applies the purge rule to it.
func (c *Controller) ShowDescription(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("note %d not found", id))
	}
	if c.state.EditingID == id && c.editor != nil {
		return nil
	}
	if c.state.EditingID != 0 {
		if err := c.hideLocked(ctx, c.state.EditingID); err != nil {
			return err
		}
	}
	c.openLocked(c.notes[c.indexLocked(id)])
	c.state.Focus = FieldDescription
	return nil
}

// HideDescription commits the open editor and closes it. A note left with an
// empty title and a blank description is deleted.
func (c *Controller) HideDescription(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hideLocked(ctx, id)
}

// BlurEditor commits the editor content without closing it.
func (c *Controller) BlurEditor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor != nil {
		c.editor.Blur()
	}
}

func (c *Controller) openLocked(n model.Note) {
	id := n.ID
	c.editor = richtext.NewSession(n.Description, func(markup string) {
		// Commit runs from Blur, which is only called with c.mu held
		c.updateDescriptionLocked(id, markup)
	})
	c.state.EditingID = id
}

func (c *Controller) hideLocked(ctx context.Context, id int64) error {
	if c.state.EditingID == id {
		if c.editor != nil {
			c.editor.Blur()
		}
		c.editor = nil
		c.state.EditingID = 0
		c.state.Focus = FieldNone
	}

	i := c.indexLocked(id)
	if i < 0 {
		return nil
	}
	n := c.notes[i]
	if n.Title != "" || !richtext.IsBlank(n.Description) {
		return nil
	}
	c.log.Debug("Purging empty note", logger.F("id", id))
	return c.removeLocked(ctx, id)
}

// AddNote inserts an empty note at the head and opens it with the title
// focused. Nothing is written until the note is edited or saved.
func (c *Controller) AddNote(ctx context.Context) (model.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.EditingID != 0 {
		if err := c.hideLocked(ctx, c.state.EditingID); err != nil {
			return model.Note{}, err
		}
	}

	now := c.clock.Now()
	n := model.NewNote(c.nextIDLocked(now), now)
	c.notes = append([]model.Note{n}, c.notes...)

	c.state.SearchTerm = ""
	c.state.ShowSearch = false
	c.openLocked(n)
	c.state.Focus = FieldTitle
	c.log.Debug("Note added", logger.F("id", n.ID))
	return n, nil
}

// nextIDLocked uses the clock in ms, falling back to max+1 on collision.
func (c *Controller) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if c.indexLocked(id) < 0 {
		return id
	}
	return c.maxIDLocked() + 1
}

func (c *Controller) maxIDLocked() int64 {
	var top int64
	for _, n := range c.notes {
		if n.ID > top {
			top = n.ID
		}
	}
	return top
}

// UpdateTitle replaces the title and schedules a debounced save.
func (c *Controller) UpdateTitle(id int64, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("note %d not found", id))
	}
	c.notes[i].Title = title
	c.scheduleLocked(id)
	return nil
}

// UpdateDescription replaces the description and schedules a debounced save.
func (c *Controller) UpdateDescription(id int64, markup string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.updateDescriptionLocked(id, markup) {
		return errs.New(errs.NotFound, fmt.Sprintf("note %d not found", id))
	}
	return nil
}

func (c *Controller) updateDescriptionLocked(id int64, markup string) bool {
	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	if c.notes[i].Description == markup {
		return true
	}
	c.notes[i].Description = markup
	c.scheduleLocked(id)
	return true
}

// scheduleLocked restarts the note's quiet period.
func (c *Controller) scheduleLocked(id int64) {
	if c.closed {
		return
	}
	if p := c.pending[id]; p != nil {
		p.timer.Stop()
	}
	p := &pendingSave{}
	p.timer = c.clock.AfterFunc(c.debounce, func() { c.fire(id, p) })
	c.pending[id] = p
}

func (c *Controller) cancelLocked(id int64) {
	if p := c.pending[id]; p != nil {
		p.timer.Stop()
		delete(c.pending, id)
	}
}

// fire runs on the timer goroutine.
func (c *Controller) fire(id int64, p *pendingSave) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// A stopped timer may still get here; only the current handle saves
	if c.pending[id] != p {
		return
	}
	delete(c.pending, id)
	ctx := context.Background()
	if err := c.persistLocked(ctx, id, true); err != nil {
		return
	}
	_ = c.persistOrderLocked(ctx)
}

// persistLocked writes the in-memory note; touch bumps lastModifiedDate.
func (c *Controller) persistLocked(ctx context.Context, id int64, touch bool) error {
	i := c.indexLocked(id)
	if i < 0 {
		return nil
	}
	if touch {
		c.notes[i].LastModifiedDate = model.FormatDate(c.clock.Now())
	}
	if err := c.repo.Save(ctx, c.notes[i]); err != nil {
		c.fail("Could not save note", err)
		return err
	}
	return nil
}

// SaveNow writes the note immediately, committing the open editor first.
func (c *Controller) SaveNow(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexLocked(id) < 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("note %d not found", id))
	}
	if c.state.EditingID == id && c.editor != nil {
		c.editor.Blur()
	}
	c.cancelLocked(id)
	return c.persistLocked(ctx, id, true)
}

// SetColor changes the background tag and saves at once.
func (c *Controller) SetColor(ctx context.Context, id int64, color model.Color) error {
	if _, ok := model.ParseColor(string(color)); !ok {
		return errs.New(errs.Validation, fmt.Sprintf("unknown color %q", color))
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("note %d not found", id))
	}
	c.notes[i].BgColor, _ = model.ParseColor(string(color))
	return c.persistLocked(ctx, id, false)
}

// SetToDoList flips the list-mode flag and saves at once.
func (c *Controller) SetToDoList(ctx context.Context, id int64, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return errs.New(errs.NotFound, fmt.Sprintf("note %d not found", id))
	}
	c.notes[i].SetToDoList(on)
	return c.persistLocked(ctx, id, false)
}

// Remove deletes a note from storage, memory and the selection. Removing an
// unknown id is not an error.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(ctx, id)
}

// RemoveMany removes ids in turn and stops at the first failure, leaving the
// earlier ones removed.
func (c *Controller) RemoveMany(ctx context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeManyLocked(ctx, ids)
}

func (c *Controller) removeManyLocked(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if err := c.removeLocked(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) removeLocked(ctx context.Context, id int64) error {
	if err := c.repo.Remove(ctx, id); err != nil {
		c.fail("Could not delete note", err)
		return err
	}
	c.cancelLocked(id)

	if i := c.indexLocked(id); i >= 0 {
		c.notes = append(c.notes[:i:i], c.notes[i+1:]...)
	}
	delete(c.state.Selection, id)
	if c.state.EditingID == id {
		c.editor = nil
		c.state.EditingID = 0
		c.state.Focus = FieldNone
	}
	c.log.Info("Note removed", logger.F("id", id))
	return c.persistOrderLocked(ctx)
}

// Reorder moves the note at view index from to view index to. Under a
// non-manual sort the list switches to manual order first.
func (c *Controller) Reorder(ctx context.Context, from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.viewLocked()
	if from < 0 || from >= len(view) || to < 0 || to >= len(view) {
		return errs.New(errs.Validation, fmt.Sprintf("move %d -> %d out of range", from, to))
	}
	if c.state.Sort != SortManual {
		c.state.Sort = SortManual
		c.state.ShowSort = false
	}
	if from == to {
		return nil
	}

	dragged := c.notes[c.indexLocked(view[from].ID)]
	target := view[to].ID

	i := c.indexLocked(dragged.ID)
	c.notes = append(c.notes[:i:i], c.notes[i+1:]...)
	at := c.indexLocked(target)
	if to > from {
		at++
	}
	c.notes = append(c.notes[:at:at], append([]model.Note{dragged}, c.notes[at:]...)...)

	return c.persistOrderLocked(ctx)
}

func (c *Controller) persistOrderLocked(ctx context.Context) error {
	if err := c.repo.PersistOrder(ctx, c.idsLocked()); err != nil {
		c.fail("Could not save note order", err)
		return err
	}
	return nil
}

func (c *Controller) idsLocked() []int64 {
	ids := make([]int64, len(c.notes))
	for i, n := range c.notes {
		ids[i] = n.ID
	}
	return ids
}

// ToggleSelected flips one note's selection and reports the new state.
func (c *Controller) ToggleSelected(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) < 0 {
		return false
	}
	if c.state.Selection[id] {
		delete(c.state.Selection, id)
		return false
	}
	c.state.Selection[id] = true
	return true
}

// ToggleSelectAll selects every note in the view, or clears them when all
// are already selected.
func (c *Controller) ToggleSelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.viewLocked()
	all := c.allSelectedLocked(view)
	for _, n := range view {
		if all {
			delete(c.state.Selection, n.ID)
		} else {
			c.state.Selection[n.ID] = true
		}
	}
}

// Selected returns the selected ids in canonical order.
func (c *Controller) Selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []int64
	for _, n := range c.notes {
		if c.state.Selection[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// AllSelected reports whether every note in a non-empty view is selected.
func (c *Controller) AllSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allSelectedLocked(c.viewLocked())
}

func (c *Controller) allSelectedLocked(view []model.Note) bool {
	if len(view) == 0 {
		return false
	}
	for _, n := range view {
		if !c.state.Selection[n.ID] {
			return false
		}
	}
	return true
}

// Pending reports how many notes wait for a debounced save.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush writes every pending save now, then the order list.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editor != nil {
		c.editor.Blur()
	}

	ids := make([]int64, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var errList []error
	for _, id := range ids {
		c.cancelLocked(id)
		if err := c.persistLocked(ctx, id, true); err != nil {
			errList = append(errList, err)
		}
	}
	if err := c.persistOrderLocked(ctx); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

// Close cancels every timer and drops the editor. Pending saves are lost;
// call Flush first to keep them.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.pending {
		c.cancelLocked(id)
	}
	c.editor = nil
	c.state.EditingID = 0
	c.state.Focus = FieldNone
	c.closed = true
}

func (c *Controller) indexLocked(id int64) int {
	for i, n := range c.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// fail logs err and shows a notice naming what failed.
func (c *Controller) fail(what string, err error) {
	c.log.Error(what, logger.F("code", errs.CodeOf(err)), logger.F("error", err))
	c.notifier.Notify(Notice{Level: LevelError, Message: what + ": " + errs.MessageOf(err)})
}
