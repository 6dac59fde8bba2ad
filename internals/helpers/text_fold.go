package helper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var reNonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// FoldText lower-cases s, strips diacritics (é → e) and collapses every run of
// non [a-z0-9] characters into one space. "School-Wear " becomes "school wear".
func FoldText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) { // mark nonspacing
			continue
		}
		buf = append(buf, r)
	}

	s = reNonAlnumRun.ReplaceAllString(string(buf), " ")
	return strings.TrimSpace(s)
}

// ContainsFolded reports whether any folded keyword appears in the folded text.
func ContainsFolded(text string, keywords ...string) bool {
	folded := FoldText(text)
	if folded == "" {
		return false
	}
	for _, k := range keywords {
		if k = FoldText(k); k != "" && strings.Contains(folded, k) {
			return true
		}
	}
	return false
}
