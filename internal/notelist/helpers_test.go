package notelist

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/existflow/notepado/internal/clock"
	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/model"
)

var start = time.Date(2024, 5, 10, 8, 30, 0, 0, time.Local)

// memRepo is an in-memory Repository with failure injection.
type memRepo struct {
	mu       sync.Mutex
	docs     map[int64]model.Note
	order    []int64
	saves    int
	loadErr  error
	saveErr  error
	failOnID int64
}

func newMemRepo(seed ...model.Note) *memRepo {
	r := &memRepo{docs: make(map[int64]model.Note)}
	for _, n := range seed {
		r.docs[n.ID] = n
		r.order = append(r.order, n.ID)
	}
	return r
}

func (r *memRepo) LoadAll(ctx context.Context) ([]model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	var out []model.Note
	seen := make(map[int64]bool)
	for _, id := range r.order {
		if n, ok := r.docs[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, n)
		}
	}
	var rest []int64
	for id := range r.docs {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, id := range rest {
		out = append(out, r.docs[id])
	}
	return out, nil
}

func (r *memRepo) Export(ctx context.Context) ([]model.Note, error) {
	all, err := r.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *memRepo) Save(ctx context.Context, n model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.docs[n.ID] = n
	return nil
}

func (r *memRepo) Remove(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnID != 0 && id == r.failOnID {
		return errs.Wrap(errs.Storage, fmt.Sprintf("remove note %d", id), fmt.Errorf("backend unavailable"))
	}
	delete(r.docs, id)
	return nil
}

func (r *memRepo) PersistOrder(ctx context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append([]int64(nil), ids...)
	return nil
}

func (r *memRepo) stored(id int64) (model.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.docs[id]
	return n, ok
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *memRepo) storedOrder() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.order...)
}

type notices struct {
	mu  sync.Mutex
	all []Notice
}

func (n *notices) Notify(x Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = append(n.all, x)
}

func (n *notices) last() Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.all) == 0 {
		return Notice{}
	}
	return n.all[len(n.all)-1]
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeSink struct {
	name    string
	payload []byte
	err     error
}

func (s *fakeSink) Deliver(ctx context.Context, name string, payload []byte) error {
	if s.err != nil {
		return s.err
	}
	s.name = name
	s.payload = payload
	return nil
}

type fixture struct {
	ctl       *Controller
	repo      *memRepo
	clock     *clock.Fake
	notices   *notices
	clipboard *fakeClipboard
	sink      *fakeSink
}

func newFixture(t testing.TB, seed ...model.Note) *fixture {
	t.Helper()
	f := &fixture{
		repo:      newMemRepo(seed...),
		clock:     clock.NewFake(start),
		notices:   &notices{},
		clipboard: &fakeClipboard{},
		sink:      &fakeSink{},
	}
	f.ctl = New(f.repo, Options{
		Clock:     f.clock,
		Debounce:  500 * time.Millisecond,
		Notifier:  f.notices,
		Clipboard: f.clipboard,
		Sink:      f.sink,
	})
	if err := f.ctl.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(f.ctl.Close)
	return f
}

// stamped builds a note with the given creation and modification times; a
// zero time leaves the field empty.
func stamped(id int64, title string, created, modified time.Time) model.Note {
	n := model.Note{ID: id, Title: title, BgColor: model.ColorDefault}
	if !created.IsZero() {
		n.CreationDate = model.FormatDate(created)
	}
	if !modified.IsZero() {
		n.LastModifiedDate = model.FormatDate(modified)
	}
	return n
}

func viewIDs(notes []model.Note) []int64 {
	out := make([]int64, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}
