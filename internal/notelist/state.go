package notelist

// Field is the editor input holding focus.
type Field int

const (
	FieldNone Field = iota
	FieldTitle
	FieldDescription
)

// State is the application state shared by the list surfaces. The controller
// owns a pointer to it and mutates it under its lock; readers take a Snapshot.
type State struct {
	SearchTerm string
	Sort       SortMode
	ShowSort   bool
	ShowSearch bool
	Selection  map[int64]bool
	EditingID  int64 // 0 when no note is open
	Focus      Field
}

// NewState returns an empty state in manual order.
func NewState() *State {
	return &State{Sort: SortManual, Selection: make(map[int64]bool)}
}

func (s *State) snapshot() State {
	out := *s
	out.Selection = make(map[int64]bool, len(s.Selection))
	for id, on := range s.Selection {
		if on {
			out.Selection[id] = true
		}
	}
	return out
}
