package notelist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/model"
)

// BulkAction is an operation over the selection.
type BulkAction string

const (
	BulkExport BulkAction = "export"
	BulkCopy   BulkAction = "copy"
	BulkRemove BulkAction = "remove"
)

// ExportName is the file name an export is delivered under.
func ExportName(ms int64) string {
	return fmt.Sprintf("notes-export-%d.json", ms)
}

// Encode renders notes as the import/export payload.
func Encode(notes []model.Note) ([]byte, error) {
	if notes == nil {
		notes = []model.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "encode notes", err)
	}
	return data, nil
}

// DecodeImport validates a payload and returns its notes. The whole payload
// is rejected at the first record that is not an object with a numeric id,
// string title, string description and a string date.
func DecodeImport(payload []byte) ([]model.Note, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil || records == nil {
		return nil, errs.New(errs.Validation, "import file must contain a JSON array of notes")
	}

	notes := make([]model.Note, 0, len(records))
	for i, raw := range records {
		n, err := decodeRecord(raw)
		if err != nil {
			return nil, errs.Wrap(errs.Validation, fmt.Sprintf("record %d is invalid", i+1), err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func decodeRecord(raw json.RawMessage) (model.Note, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return model.Note{}, errors.New("not an object")
	}

	id, ok := fields["id"].(float64)
	if !ok {
		return model.Note{}, errors.New("id must be a number")
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive
	if id != math.Trunc(id) || id < math.MinInt64 || id >= math.MaxInt64 {
		return model.Note{}, errors.New("id must be a whole number in range")
	}
	title, ok := fields["title"].(string)
	if !ok {
		return model.Note{}, errors.New("title must be a string")
	}
	description, ok := fields["description"].(string)
	if !ok {
		return model.Note{}, errors.New("description must be a string")
	}
	created, ok := fields["creationDate"].(string)
	if !ok {
		// Older exports named the field "date"
		if created, ok = fields["date"].(string); !ok {
			return model.Note{}, errors.New("creationDate must be a string")
		}
	}

	n := model.Note{
		ID:           int64(id),
		Title:        title,
		Description:  Sanitize(description),
		CreationDate: created,
		BgColor:      model.ColorDefault,
	}
	if modified, ok := fields["lastModifiedDate"].(string); ok {
		n.LastModifiedDate = modified
	}
	if color, ok := fields["bgColor"].(string); ok {
		n.BgColor, _ = model.ParseColor(color)
	}
	switch v := fields["toDoList"].(type) {
	case string:
		n.SetToDoList(v == "true")
	case bool:
		n.SetToDoList(v)
	}
	return n, nil
}

// ImportNotes appends the notes in payload. Nothing is imported when any
// record is invalid. Ids already taken are reassigned past the highest id in
// use. It returns the number of notes imported.
func (c *Controller) ImportNotes(ctx context.Context, payload []byte) (int, error) {
	incoming, err := DecodeImport(payload)
	if err != nil {
		c.log.Warn("Import rejected", logger.F("error", err))
		c.notifier.Notify(Notice{Level: LevelError, Message: "Import failed: " + err.Error()})
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	used := make(map[int64]bool, len(c.notes)+len(incoming))
	top := c.maxIDLocked()
	for _, n := range c.notes {
		used[n.ID] = true
	}
	for _, n := range incoming {
		if n.ID > top {
			top = n.ID
		}
	}

	var errList []error
	for _, n := range incoming {
		if used[n.ID] {
			top++
			c.log.Debug("Reassigning colliding import id", logger.F("from", n.ID), logger.F("to", top))
			n.ID = top
		}
		used[n.ID] = true
		c.notes = append(c.notes, n)
		if err := c.persistLocked(ctx, n.ID, false); err != nil {
			errList = append(errList, err)
		}
	}
	if err := c.persistOrderLocked(ctx); err != nil {
		errList = append(errList, err)
	}

	c.log.Info("Notes imported", logger.F("count", len(incoming)))
	if len(errList) == 0 {
		c.notifier.Notify(Notice{Level: LevelInfo, Message: fmt.Sprintf("Imported %d notes", len(incoming))})
	}
	return len(incoming), errors.Join(errList...)
}

// selectedLocked returns the notes named by ids in canonical order.
func (c *Controller) selectedLocked(ids []int64) []model.Note {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Note
	for _, n := range c.notes {
		if want[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// ExportSelected hands the selected notes to the export sink.
func (c *Controller) ExportSelected(ctx context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exportLocked(ctx, ids)
}

func (c *Controller) exportLocked(ctx context.Context, ids []int64) error {
	notes := c.selectedLocked(ids)
	if len(notes) == 0 {
		return errs.New(errs.Validation, "no notes selected")
	}
	if c.sink == nil {
		err := errs.New(errs.Share, "export is not available")
		c.fail("Could not export notes", err)
		return err
	}

	payload, err := Encode(notes)
	if err != nil {
		return err
	}
	name := ExportName(c.clock.Now().UnixMilli())
	if err := c.sink.Deliver(ctx, name, payload); err != nil {
		if errs.CodeOf(err) == errs.Internal {
			err = errs.Wrap(errs.Share, "deliver "+name, err)
		}
		c.fail("Could not export notes", err)
		return err
	}

	c.log.Info("Notes exported", logger.F("count", len(notes)), logger.F("name", name))
	c.notifier.Notify(Notice{Level: LevelInfo, Message: fmt.Sprintf("Exported %d notes", len(notes))})
	return nil
}

// CopySelectedToClipboard writes the selected notes to the clipboard.
func (c *Controller) CopySelectedToClipboard(ctx context.Context, ids []int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	notes := c.selectedLocked(ids)
	if len(notes) == 0 {
		return errs.New(errs.Validation, "no notes selected")
	}
	return c.copyLocked(notes)
}

// CopyAll writes every stored note to the clipboard.
func (c *Controller) CopyAll(ctx context.Context) error {
	notes, err := c.repo.Export(ctx)
	if err != nil {
		c.mu.Lock()
		c.fail("Could not read notes", err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked(notes)
}

func (c *Controller) copyLocked(notes []model.Note) error {
	if c.clipboard == nil {
		err := errs.New(errs.Clipboard, "clipboard is not available")
		c.fail("Could not copy notes", err)
		return err
	}
	payload, err := Encode(notes)
	if err != nil {
		return err
	}
	if err := c.clipboard.WriteText(string(payload)); err != nil {
		err = errs.Wrap(errs.Clipboard, "write clipboard", err)
		c.fail("Could not copy notes", err)
		return err
	}
	c.notifier.Notify(Notice{Level: LevelInfo, Message: fmt.Sprintf("Copied %d notes", len(notes))})
	return nil
}

// BulkAction runs action over ids. Removal goes through the single-note path
// and stops at the first failure.
func (c *Controller) BulkAction(ctx context.Context, action BulkAction, ids []int64) error {
	switch action {
	case BulkExport:
		return c.ExportSelected(ctx, ids)
	case BulkCopy:
		return c.CopySelectedToClipboard(ctx, ids)
	case BulkRemove:
		return c.RemoveMany(ctx, ids)
	}
	return errs.New(errs.Validation, fmt.Sprintf("unknown bulk action %q", action))
}
