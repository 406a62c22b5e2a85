// Package sanitize cleans user supplied text before it is stored or echoed
// back to map clients.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagRegex   = regexp.MustCompile(`<[^>]*>`)
	spaceRegex = regexp.MustCompile(`\s+`)

	entities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", `"`, "&#39;", "'")
)

// MaxLabelRunes bounds an office label.
const MaxLabelRunes = 200

// Label strips markup, collapses whitespace and cuts s to MaxLabelRunes.
func Label(s string) string {
	s = tagRegex.ReplaceAllString(s, "")
	// Entities may hide tags, strip again after decoding.
	s = tagRegex.ReplaceAllString(entities.Replace(s), "")
	s = strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))

	if utf8.RuneCountInString(s) <= MaxLabelRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxLabelRunes]))
}
