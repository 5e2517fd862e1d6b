// Package notes composes the document store and the key/value store into an
// ordered collection of notes.
package notes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/existflow/notepado/internal/docstore"
	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/kv"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/model"
)

// Repository persists notes and their display order.
type Repository struct {
	docs docstore.Store
	kv   kv.Store
	log  *logger.Logger
}

// NewRepository wires a repository over the two stores.
func NewRepository(docs docstore.Store, store kv.Store, log *logger.Logger) *Repository {
	if log == nil {
		log = logger.Nop()
	}
	return &Repository{docs: docs, kv: store, log: log.WithFields(logger.F("component", "notes"))}
}

// LoadAll returns notes arranged by the stored order, followed by notes the
// order does not mention in discovery order.
func (r *Repository) LoadAll(ctx context.Context) ([]model.Note, error) {
	all, err := r.Export(ctx)
	if err != nil {
		return nil, err
	}

	order, err := r.order(ctx)
	if err != nil {
		// A broken order list must not hide the notes themselves
		r.log.Warn("Ignoring unreadable display order", logger.F("error", err))
		order = nil
	}

	return arrange(all, order), nil
}

// Export returns every stored note in discovery order.
func (r *Repository) Export(ctx context.Context) ([]model.Note, error) {
	records, err := r.docs.GetAll(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.Storage, "load notes", err)
	}

	notes := make([]model.Note, 0, len(records))
	for _, rec := range records {
		var n model.Note
		if err := json.Unmarshal(rec.Body, &n); err != nil {
			r.log.Warn("Skipping corrupt note record", logger.F("id", rec.ID), logger.F("error", err))
			continue
		}
		n.ID = rec.ID
		notes = append(notes, n)
	}
	return notes, nil
}

// Save replaces the stored record for note.ID entirely.
func (r *Repository) Save(ctx context.Context, note model.Note) error {
	body, err := json.Marshal(note)
	if err != nil {
		return errs.Wrap(errs.Internal, "encode note", err)
	}
	if err := r.docs.Put(ctx, note.ID, body); err != nil {
		return errs.Wrap(errs.Storage, fmt.Sprintf("save note %d", note.ID), err)
	}
	r.log.Debug("Note saved", logger.F("id", note.ID))
	return nil
}

// Remove deletes a note; a missing id is not an error.
func (r *Repository) Remove(ctx context.Context, id int64) error {
	if err := r.docs.Delete(ctx, id); err != nil {
		return errs.Wrap(errs.Storage, fmt.Sprintf("remove note %d", id), err)
	}
	r.log.Debug("Note removed", logger.F("id", id))
	return nil
}

// PersistOrder overwrites the stored order with exactly ids.
func (r *Repository) PersistOrder(ctx context.Context, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	if err := kv.SetJSON(ctx, r.kv, kv.KeyItemOrder, ids); err != nil {
		return errs.Wrap(errs.Storage, "save display order", err)
	}
	return nil
}

func (r *Repository) order(ctx context.Context) ([]int64, error) {
	var ids []int64
	if _, err := kv.GetJSON(ctx, r.kv, kv.KeyItemOrder, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// arrange puts notes named by order first, then the rest as discovered.
func arrange(all []model.Note, order []int64) []model.Note {
	byID := make(map[int64]int, len(all))
	for i, n := range all {
		byID[n.ID] = i
	}

	result := make([]model.Note, 0, len(all))
	placed := make(map[int64]bool, len(all))
	for _, id := range order {
		i, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		result = append(result, all[i])
	}
	for _, n := range all {
		if !placed[n.ID] {
			result = append(result, n)
		}
	}
	return result
}
