package tui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
	"github.com/mattn/go-runewidth"
)

// Truncate shortens s to at most width terminal cells, with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight fills s with spaces up to width terminal cells
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Modified is the note's last change relative to now, e.g. "3 minutes ago"
func Modified(n model.Note, now time.Time) string {
	ms := notelist.ModifiedKey(n)
	if ms == 0 {
		return "-"
	}
	return humanize.RelTime(time.UnixMilli(ms), now, "ago", "from now")
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}
