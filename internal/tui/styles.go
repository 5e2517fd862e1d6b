package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/notepado/internal/model"
	"github.com/existflow/notepado/internal/notelist"
)

// Color palette based on TUI design
var (
	// Note background tags
	NoteRed    = lipgloss.Color("#FF6B6B")
	NoteBlue   = lipgloss.Color("#5DA9E9")
	NoteGreen  = lipgloss.Color("#95E1A3")
	NoteYellow = lipgloss.Color("#FFE66D")
	NotePlain  = lipgloss.Color("#6C757D")

	// Notice colors
	NoticeInfo    = lipgloss.Color("#95E1A3") // Green
	NoticeWarning = lipgloss.Color("#FFE66D") // Yellow
	NoticeError   = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Secondary  = lipgloss.Color("#6C757D")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
	Highlight  = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	// Note list
	NoteListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	NoteItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	NoteItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Checked for a bulk action
	NoteMarkedStyle = lipgloss.NewStyle().
			Foreground(Highlight)

	// Editor pane
	EditorStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(Border).
			Padding(1, 2)

	EditorFocusedStyle = EditorStyle.
				BorderForeground(Primary)

	CursorStyle = lipgloss.NewStyle().
			Reverse(true)

	SelectionStyle = lipgloss.NewStyle().
			Background(Surface).
			Foreground(Highlight)

	ToolbarOnStyle = lipgloss.NewStyle().
			Foreground(Background).
			Background(Primary).
			Bold(true)

	ToolbarOffStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Ad banner strip
	BannerStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Background(Surface).
			Padding(0, 1)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// NoteColor returns the swatch color for a background tag
func NoteColor(c model.Color) lipgloss.Color {
	switch c {
	case model.ColorRed:
		return NoteRed
	case model.ColorBlue:
		return NoteBlue
	case model.ColorGreen:
		return NoteGreen
	case model.ColorYellow:
		return NoteYellow
	default:
		return NotePlain
	}
}

// Swatch renders the color marker shown in front of a note
func Swatch(c model.Color) string {
	mark := "●"
	if c == model.ColorDefault || c == "" {
		mark = "○"
	}
	return lipgloss.NewStyle().Foreground(NoteColor(c)).Render(mark)
}

// NoticeStyle returns the status line style for a notice level
func NoticeStyle(level notelist.Level) lipgloss.Style {
	switch level {
	case notelist.LevelError:
		return lipgloss.NewStyle().Foreground(NoticeError).Bold(true)
	case notelist.LevelWarning:
		return lipgloss.NewStyle().Foreground(NoticeWarning)
	default:
		return lipgloss.NewStyle().Foreground(NoticeInfo)
	}
}
