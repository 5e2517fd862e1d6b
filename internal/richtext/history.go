package richtext

// HistoryLimit bounds the undo stack.
const HistoryLimit = 100

// History is a bounded snapshot stack. The top is the current content.
type History struct {
	entries []string
	limit   int
}

// NewHistory returns a stack holding at most limit snapshots.
func NewHistory(limit int) *History {
	if limit < 2 {
		limit = 2
	}
	return &History{limit: limit}
}

// Push records a snapshot unless it equals the top. The oldest entry is
// dropped once the limit is reached.
func (h *History) Push(snapshot string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == snapshot {
		return
	}
	h.entries = append(h.entries, snapshot)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
}

// Undo pops the top and returns the new top. With fewer than two entries
// there is nothing to revert to.
func (h *History) Undo() (string, bool) {
	if !h.CanUndo() {
		return "", false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

func (h *History) CanUndo() bool { return len(h.entries) >= 2 }

func (h *History) Len() int { return len(h.entries) }
