package notelist

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/existflow/notepado/internal/errs"
	"github.com/existflow/notepado/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportReassignsCollidingIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, stamped(5, "five", start, time.Time{}), stamped(7, "seven", start, time.Time{}))

	payload := `[
		{"id": 5, "title": "dup", "description": "", "creationDate": "01.02.2024, 10:00:00"},
		{"id": 3, "title": "three", "description": "x", "creationDate": "01.02.2024, 10:00:00"},
		{"id": 3, "title": "three again", "description": "y", "date": "01.02.2024, 10:00:00"}
	]`
	count, err := f.ctl.ImportNotes(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	assert.Equal(t, []int64{5, 7, 8, 3, 9}, viewIDs(f.ctl.Notes()))
	dup, ok := f.ctl.Note(8)
	require.True(t, ok)
	assert.Equal(t, "dup", dup.Title)
	again, _ := f.ctl.Note(9)
	assert.Equal(t, "three again", again.Title)
	assert.Equal(t, "01.02.2024, 10:00:00", again.CreationDate)

	_, stored := f.repo.stored(9)
	assert.True(t, stored)
	assert.Equal(t, []int64{5, 7, 8, 3, 9}, f.repo.storedOrder())
	assert.Equal(t, LevelInfo, f.notices.last().Level)
}

func TestImportRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `{{`},
		{"not an array", `{"id": 1}`},
		{"null", `null`},
		{"string id", `[{"id": "1", "title": "", "description": "", "creationDate": ""}]`},
		{"fractional id", `[{"id": 1.5, "title": "", "description": "", "creationDate": ""}]`},
		{"id out of range", `[{"id": 1e300, "title": "", "description": "", "creationDate": ""}]`},
		{"id at 2^63", `[{"id": 9223372036854775808, "title": "", "description": "", "creationDate": ""}]`},
		{"missing title", `[{"id": 1, "description": "", "creationDate": ""}]`},
		{"numeric description", `[{"id": 1, "title": "", "description": 4, "creationDate": ""}]`},
		{"missing date", `[{"id": 1, "title": "", "description": ""}]`},
		{"record not object", `[1]`},
		{"second record bad", `[
			{"id": 1, "title": "ok", "description": "", "creationDate": ""},
			{"id": 2, "title": 5, "description": "", "creationDate": ""}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			count, err := f.ctl.ImportNotes(ctx, []byte(tt.payload))
			assert.True(t, errs.Is(err, errs.Validation), "got %v", err)
			assert.Zero(t, count)
			assert.Empty(t, f.ctl.Notes())
			assert.Zero(t, f.repo.saveCount())
			assert.Equal(t, LevelError, f.notices.last().Level)
		})
	}
}

func TestImportDefaultsAndSanitizes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	payload := `[{"id": 1, "title": "t", "description": "<script>alert(1)</script><b>ok</b><a href=\"x\">link</a>",
		"creationDate": "01.02.2024, 10:00:00", "bgColor": "o-bg-red", "toDoList": true}]`
	_, err := f.ctl.ImportNotes(ctx, []byte(payload))
	require.NoError(t, err)

	n, ok := f.ctl.Note(1)
	require.True(t, ok)
	assert.Equal(t, model.ColorRed, n.BgColor)
	assert.Equal(t, "true", n.ToDoList)
	assert.Empty(t, n.LastModifiedDate, "a missing modified date stays empty")
	assert.NotContains(t, n.Description, "script")
	assert.NotContains(t, n.Description, "href")
	assert.Contains(t, n.Description, "<b>ok</b>")
	assert.Contains(t, n.Description, "link")
}

func TestImportEmptyArray(t *testing.T) {
	f := newFixture(t)
	count, err := f.ctl.ImportNotes(context.Background(), []byte(`[]`))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExportSelected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		stamped(1, "one", start, time.Time{}),
		stamped(2, "two", start, time.Time{}),
		stamped(3, "three", start, time.Time{}),
	)

	require.NoError(t, f.ctl.ExportSelected(ctx, []int64{3, 1}))
	assert.Equal(t, ExportName(start.UnixMilli()), f.sink.name)
	assert.True(t, strings.HasPrefix(string(f.sink.payload), "[\n  {\n    \"id\": 1,"), string(f.sink.payload))

	var got []model.Note
	require.NoError(t, json.Unmarshal(f.sink.payload, &got))
	assert.Equal(t, []int64{1, 3}, viewIDs(got))

	// Export is read-only
	assert.Zero(t, f.repo.saveCount())
	assert.Len(t, f.ctl.Notes(), 3)
}

func TestExportRoundTripsThroughImport(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t, stamped(1, "one", start, start.Add(time.Hour)))
	require.NoError(t, src.ctl.SetColor(ctx, 1, model.ColorBlue))
	require.NoError(t, src.ctl.ExportSelected(ctx, []int64{1}))

	dst := newFixture(t)
	_, err := dst.ctl.ImportNotes(ctx, src.sink.payload)
	require.NoError(t, err)
	want, _ := src.ctl.Note(1)
	got, _ := dst.ctl.Note(1)
	assert.Equal(t, want, got)
}

func TestExportFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, stamped(1, "one", start, time.Time{}))

	assert.True(t, errs.Is(f.ctl.ExportSelected(ctx, nil), errs.Validation))

	f.sink.err = errors.New("share sheet dismissed")
	err := f.ctl.ExportSelected(ctx, []int64{1})
	assert.True(t, errs.Is(err, errs.Share))
	assert.Equal(t, LevelError, f.notices.last().Level)

	noSink := New(f.repo, Options{Clock: f.clock})
	require.NoError(t, noSink.Load(ctx))
	assert.True(t, errs.Is(noSink.ExportSelected(ctx, []int64{1}), errs.Share))
}

func TestCopySelectedAndAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, stamped(1, "one", start, time.Time{}), stamped(2, "two", start, time.Time{}))

	require.NoError(t, f.ctl.CopySelectedToClipboard(ctx, []int64{2}))
	var got []model.Note
	require.NoError(t, json.Unmarshal([]byte(f.clipboard.text), &got))
	assert.Equal(t, []int64{2}, viewIDs(got))

	require.NoError(t, f.ctl.CopyAll(ctx))
	require.NoError(t, json.Unmarshal([]byte(f.clipboard.text), &got))
	assert.Equal(t, []int64{1, 2}, viewIDs(got))

	f.clipboard.err = errors.New("no display")
	err := f.ctl.CopyAll(ctx)
	assert.True(t, errs.Is(err, errs.Clipboard))
	assert.Equal(t, LevelError, f.notices.last().Level)
}

func TestBulkAction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		stamped(1, "one", start, time.Time{}),
		stamped(2, "two", start, time.Time{}),
		stamped(3, "three", start, time.Time{}),
	)
	f.ctl.ToggleSelected(1)
	f.ctl.ToggleSelected(3)

	require.NoError(t, f.ctl.BulkAction(ctx, BulkCopy, f.ctl.Selected()))
	require.NoError(t, f.ctl.BulkAction(ctx, BulkExport, f.ctl.Selected()))
	assert.Equal(t, []int64{1, 3}, f.ctl.Selected(), "copy and export keep the selection")

	require.NoError(t, f.ctl.BulkAction(ctx, BulkRemove, f.ctl.Selected()))
	assert.Equal(t, []int64{2}, viewIDs(f.ctl.Notes()))
	assert.Empty(t, f.ctl.Selected())

	assert.True(t, errs.Is(f.ctl.BulkAction(ctx, "archive", nil), errs.Validation))
}
