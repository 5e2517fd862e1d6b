package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTML renders the canonical markup: one <p> per block, <br> for breaks, a
// trailing placeholder <br> when the block is empty or ends with a break.
// Parse(d.HTML()) yields d again.
func (d Document) HTML() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		sb.WriteString("<p>")
		for _, r := range b.Runs {
			writeRun(&sb, r)
		}
		if text := b.Text(); text == "" || strings.HasSuffix(text, "\n") {
			sb.WriteString("<br>")
		}
		sb.WriteString("</p>")
	}
	return sb.String()
}

func writeRun(sb *strings.Builder, r Run) {
	var open, closeTags []string
	if r.Format.Size != 0 {
		open = append(open, `<font size="`+strconv.Itoa(r.Format.Size)+`">`)
		closeTags = append(closeTags, "</font>")
	}
	for _, t := range []struct {
		on  bool
		tag string
	}{
		{r.Format.Bold, "b"},
		{r.Format.Italic, "i"},
		{r.Format.Underline, "u"},
		{r.Format.Strike, "s"},
	} {
		if t.on {
			open = append(open, "<"+t.tag+">")
			closeTags = append(closeTags, "</"+t.tag+">")
		}
	}

	for _, tag := range open {
		sb.WriteString(tag)
	}
	lines := strings.Split(r.Text, "\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("<br>")
		}
		sb.WriteString(html.EscapeString(line))
	}
	for i := len(closeTags) - 1; i >= 0; i-- {
		sb.WriteString(closeTags[i])
	}
}
