package catalog

import (
	"strings"
	"unicode"
)

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Slugify(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
