package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Color     key.Binding
	ToDo      key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Bulk      key.Binding
	Sort      key.Binding
	Search    key.Binding
	Import    key.Binding
	Language  key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Refresh   key.Binding
}

// editorKeyMap holds the bindings active while a note is open. Terminals send
// ctrl+i as tab and ctrl+[ as esc, so italic and smaller use other chords.
type editorKeyMap struct {
	Save      key.Binding
	Close     key.Binding
	Tab       key.Binding
	Bold      key.Binding
	Italic    key.Binding
	Underline key.Binding
	Strike    key.Binding
	Bigger    key.Binding
	Smaller   key.Binding
	Clear     key.Binding
	Undo      key.Binding
	SelectAll key.Binding
	SoftBreak key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	MoveUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
	MoveDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add note")),
	Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Color:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color")),
	ToDo:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "to-do list")),
	Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	SelectAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
	Bulk:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bulk actions")),
	Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Import:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
	Language:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "language")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:   key.NewBinding(key.WithKeys("R", "r"), key.WithHelp("R", "reload")),
}

var editorKeys = editorKeyMap{
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Tab:       key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "title/body")),
	Bold:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "bold")),
	Italic:    key.NewBinding(key.WithKeys("alt+i"), key.WithHelp("alt+i", "italic")),
	Underline: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "underline")),
	Strike:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "strike")),
	Bigger:    key.NewBinding(key.WithKeys("ctrl+]"), key.WithHelp("ctrl+]", "bigger")),
	Smaller:   key.NewBinding(key.WithKeys("ctrl+\\"), key.WithHelp("ctrl+\\", "smaller")),
	Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear format")),
	Undo:      key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
	SelectAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
	SoftBreak: key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "line break")),
}
