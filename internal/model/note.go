package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Color is a background tag from the fixed palette
type Color string

const (
	ColorDefault Color = "default"
	ColorRed     Color = "red"
	ColorBlue    Color = "blue"
	ColorGreen   Color = "green"
	ColorYellow  Color = "yellow"
)

// Palette lists the colors in picker order
var Palette = []Color{ColorDefault, ColorRed, ColorBlue, ColorGreen, ColorYellow}

// colorPrefix is how the tag is written on disk, kept for file compatibility
const colorPrefix = "o-bg-"

// ParseColor accepts both "red" and "o-bg-red"
func ParseColor(s string) (Color, bool) {
	c := Color(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), colorPrefix))
	for _, p := range Palette {
		if p == c {
			return c, true
		}
	}
	return ColorDefault, false
}

// MarshalJSON writes the prefixed form
func (c Color) MarshalJSON() ([]byte, error) {
	if c == "" {
		c = ColorDefault
	}
	return json.Marshal(colorPrefix + string(c))
}

// UnmarshalJSON decodes either form; unknown values become default
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = ColorDefault
		return nil
	}
	*c, _ = ParseColor(s)
	return nil
}

// Note is a single persisted note
type Note struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	CreationDate     string `json:"creationDate"`
	LastModifiedDate string `json:"lastModifiedDate,omitempty"`
	BgColor          Color  `json:"bgColor"`
	ToDoList         string `json:"toDoList,omitempty"` // "true" or "false"
}

// NewNote creates an empty note stamped with now
func NewNote(id int64, now time.Time) Note {
	stamp := FormatDate(now)
	return Note{
		ID:               id,
		CreationDate:     stamp,
		LastModifiedDate: stamp,
		BgColor:          ColorDefault,
	}
}

// IsToDoList reports the list-mode flag
func (n *Note) IsToDoList() bool {
	return n.ToDoList == "true"
}

// SetToDoList stores the flag in its string form
func (n *Note) SetToDoList(on bool) {
	if on {
		n.ToDoList = "true"
	} else {
		n.ToDoList = "false"
	}
}
