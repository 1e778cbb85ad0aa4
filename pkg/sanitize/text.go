package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// Text strips markup from user-supplied text and trims surrounding space.
// Entities escaped by the policy are decoded again so that stored text
// reads the way it was typed ("Don't" stays "Don't"); clients render it
// as text, never as HTML.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// TextPtr sanitizes an optional field, leaving nil untouched.
func TextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	out := Text(*input)
	return &out
}
