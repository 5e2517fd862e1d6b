package notelist

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy allows only what the editor itself produces.
var descriptionPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "u", "s", "strike", "span", "div")
	p.AllowAttrs("size").Matching(regexp.MustCompile(`^[1-7]$`)).OnElements("font")
	return p
}()

// Sanitize strips markup the editor cannot represent.
func Sanitize(markup string) string {
	if markup == "" {
		return ""
	}
	return descriptionPolicy.Sanitize(markup)
}
