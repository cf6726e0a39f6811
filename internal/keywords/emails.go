package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// The API exposes no contact field, so candidate emails are scraped from
// the free-text description: the plain form and the spelled-out
// "user AT domain" form people use to dodge harvesters.
var (
	emailPattern        = regexp.MustCompile(`[\w._%+-]+@[\w.-]+`)
	emailSpelledPattern = regexp.MustCompile(`[\w._%+-]+\sAT\s[\w.-]+`)
)

// ExtractEmails returns the lowercased, deduplicated union of both token
// forms found in the description. Spelled-out matches keep their form
// ("jane AT y.org" becomes "jane at y.org").
func ExtractEmails(description string) []string {
	matches := emailPattern.FindAllString(description, -1)
	matches = append(matches, emailSpelledPattern.FindAllString(description, -1)...)

	set := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		set[strings.ToLower(m)] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
