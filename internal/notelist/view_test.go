package notelist

import (
	"testing"
	"time"

	"github.com/existflow/notepado/internal/model"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSearchThreshold(t *testing.T) {
	list := []model.Note{
		{ID: 1, Title: "Groceries", Description: "milk"},
		{ID: 2, Title: "Work", Description: "<p>Meeting notes</p>"},
		{ID: 3, Title: "misc"},
	}

	assert.Equal(t, []int64{1, 2, 3}, viewIDs(FilterAndSort(list, "m", SortManual)))
	assert.Equal(t, []int64{1, 2, 3}, viewIDs(FilterAndSort(list, "", SortManual)))
	assert.Equal(t, []int64{1, 3}, viewIDs(FilterAndSort(list, "mi", SortManual)))
	assert.Equal(t, []int64{1}, viewIDs(FilterAndSort(list, "GRO", SortManual)))
	assert.Equal(t, []int64{2}, viewIDs(FilterAndSort(list, "meeting", SortManual)))
	assert.Empty(t, FilterAndSort(list, "zz", SortManual))
}

func TestShortTermKeepsSort(t *testing.T) {
	list := []model.Note{
		stamped(1, "a", start, time.Time{}),
		stamped(2, "b", start.Add(time.Hour), time.Time{}),
	}
	assert.Equal(t, []int64{2, 1}, viewIDs(FilterAndSort(list, "a", SortCreatedNewest)))
}

func TestModifiedSortFallsBackToCreation(t *testing.T) {
	a := stamped(1, "A", start.Add(-48*time.Hour), start)
	b := stamped(2, "B", start.Add(-time.Hour), time.Time{})
	c := model.Note{ID: 3, Title: "C", CreationDate: "garbage", LastModifiedDate: "also garbage"}

	for _, order := range [][]model.Note{{c, b, a}, {b, c, a}, {a, b, c}} {
		assert.Equal(t, []int64{1, 2, 3}, viewIDs(FilterAndSort(order, "", SortModifiedNewest)))
		assert.Equal(t, []int64{3, 2, 1}, viewIDs(FilterAndSort(order, "", SortModifiedOldest)))
	}
}

func TestCreatedSorts(t *testing.T) {
	list := []model.Note{
		stamped(1, "", start.Add(2*time.Minute), time.Time{}),
		stamped(2, "", start, time.Time{}),
		stamped(3, "", start.Add(time.Minute), time.Time{}),
	}
	assert.Equal(t, []int64{1, 3, 2}, viewIDs(FilterAndSort(list, "", SortCreatedNewest)))
	assert.Equal(t, []int64{2, 3, 1}, viewIDs(FilterAndSort(list, "", SortCreatedOldest)))
	assert.Equal(t, []int64{1, 2, 3}, viewIDs(FilterAndSort(list, "", SortManual)))
	assert.Equal(t, []int64{1, 2, 3}, viewIDs(list), "input must not be reordered")
}

func TestParseSortMode(t *testing.T) {
	for _, m := range SortModes {
		got, ok := ParseSortMode(string(m))
		assert.True(t, ok)
		assert.Equal(t, m, got)
		assert.NotEmpty(t, m.Label())
	}
	_, ok := ParseSortMode("random")
	assert.False(t, ok)
}

func testFilterIsSubset(t *rapid.T) {
	words := []string{"Milk", "eggs", "Bread", "mIlKshake", "notes", "ün", "ÜN"}
	n := rapid.IntRange(0, 8).Draw(t, "n")
	list := make([]model.Note, n)
	for i := range list {
		list[i] = model.Note{
			ID:          int64(i + 1),
			Title:       rapid.SampledFrom(words).Draw(t, "title"),
			Description: rapid.SampledFrom(words).Draw(t, "description"),
		}
	}
	term := rapid.SampledFrom([]string{"m", "mi", "milk", "EGG", "ün", "x"}).Draw(t, "term")

	got := FilterAndSort(list, term, SortManual)
	if len([]rune(term)) < MinSearchRunes {
		if len(got) != len(list) {
			t.Fatalf("short term %q filtered the list", term)
		}
		return
	}
	want := 0
	for _, note := range list {
		if Matches(note, term) {
			want++
		}
	}
	if len(got) != want {
		t.Fatalf("got %d matches, want %d", len(got), want)
	}
	for _, note := range got {
		if !Matches(note, term) {
			t.Fatalf("note %d does not match %q", note.ID, term)
		}
	}
}

func TestFilterIsSubset(t *testing.T) {
	rapid.Check(t, testFilterIsSubset)
}

func TestMatchesIsCaseInsensitive(t *testing.T) {
	assert.True(t, Matches(model.Note{Title: "Über"}, "üb"))
	assert.True(t, Matches(model.Note{Description: "MILKSHAKE"}, "milk"))
	assert.False(t, Matches(model.Note{Title: "tea"}, "milk"))
}
