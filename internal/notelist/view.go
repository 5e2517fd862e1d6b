package notelist

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/existflow/notepado/internal/model"
	"golang.org/x/text/cases"
)

// SortMode orders the derived view.
type SortMode string

const (
	SortManual         SortMode = "manual"
	SortCreatedNewest  SortMode = "created-newest"
	SortCreatedOldest  SortMode = "created-oldest"
	SortModifiedNewest SortMode = "modified-newest"
	SortModifiedOldest SortMode = "modified-oldest"
)

// SortModes lists the modes in menu order.
var SortModes = []SortMode{SortManual, SortCreatedNewest, SortCreatedOldest, SortModifiedNewest, SortModifiedOldest}

// ParseSortMode validates a mode name.
func ParseSortMode(s string) (SortMode, bool) {
	for _, m := range SortModes {
		if string(m) == s {
			return m, true
		}
	}
	return SortManual, false
}

// Label is the menu text for the mode.
func (m SortMode) Label() string {
	switch m {
	case SortCreatedNewest:
		return "Created, newest first"
	case SortCreatedOldest:
		return "Created, oldest first"
	case SortModifiedNewest:
		return "Modified, newest first"
	case SortModifiedOldest:
		return "Modified, oldest first"
	default:
		return "Manual order"
	}
}

// MinSearchRunes is the shortest term that filters the list.
const MinSearchRunes = 2

// Matches reports whether a note passes the search term. Terms shorter than
// MinSearchRunes match everything.
func Matches(n model.Note, term string) bool {
	if utf8.RuneCountInString(term) < MinSearchRunes {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(term)
	return strings.Contains(fold.String(n.Title), needle) ||
		strings.Contains(fold.String(n.Description), needle)
}

// FilterAndSort derives the visible list from the canonical collection. The
// input is not modified and the sort is stable.
func FilterAndSort(notes []model.Note, term string, mode SortMode) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if Matches(n, term) {
			out = append(out, n)
		}
	}

	var key func(model.Note) int64
	newest := false
	switch mode {
	case SortCreatedNewest:
		key, newest = CreatedKey, true
	case SortCreatedOldest:
		key = CreatedKey
	case SortModifiedNewest:
		key, newest = ModifiedKey, true
	case SortModifiedOldest:
		key = ModifiedKey
	default:
		return out
	}

	keys := make(map[int64]int64, len(out))
	for _, n := range out {
		keys[n.ID] = key(n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if newest {
			return keys[out[i].ID] > keys[out[j].ID]
		}
		return keys[out[i].ID] < keys[out[j].ID]
	})
	return out
}

// CreatedKey is the creation time in ms, 0 when unparseable.
func CreatedKey(n model.Note) int64 {
	ms, _ := model.ParseDate(n.CreationDate)
	return ms
}

// ModifiedKey falls back to the creation time when the note has no readable
// modification date.
func ModifiedKey(n model.Note) int64 {
	if ms, ok := model.ParseDate(n.LastModifiedDate); ok {
		return ms
	}
	return CreatedKey(n)
}
