// Package keywords parses the creator-supplied tag microformat and
// extracts contact signals from channel descriptions.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// ParseTags tokenizes a raw tag string into a normalized keyword set.
// Phrases are either bare (space-delimited) or double-quoted to preserve
// internal spaces, e.g. `"jamie obrien" surfing "the wedge" pipeline`.
// The originating search keyword is unioned into the result.
//
// The scanner has two states: inside or outside a quote. A quote toggles
// the state and is never copied; a space is kept inside quotes and becomes
// a field separator outside; everything else is lowercased and copied, so
// literal commas also separate fields. There is no escaping: an unbalanced
// quote leaves the rest of the string parsing in whichever state the last
// quote set. That is observable behavior of existing seed data and is kept
// as-is rather than corrected here.
func ParseTags(raw, searchKeyword string) []string {
	var b strings.Builder
	inQuote := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ':
			if inQuote {
				b.WriteRune(' ')
			} else {
				b.WriteRune(',')
			}
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}

	set := make(map[string]struct{})
	for _, field := range strings.Split(b.String(), ",") {
		if field != "" {
			set[field] = struct{}{}
		}
	}
	if searchKeyword != "" {
		set[searchKeyword] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
