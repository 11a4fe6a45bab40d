// Package extraction derives listing fields straight from free text. Every
// function is pure and returns an empty value when nothing is found.
package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keywordRule maps any of a set of words to a label.
type keywordRule struct {
	label string
	re    *regexp.Regexp
}

// newKeywordRule compiles words into one case-insensitive, word-bounded
// alternation. Spaces inside a word accept any run of spaces or hyphens,
// so "motor bike" also matches "motor-bike" and "motorbike".
func newKeywordRule(label string, words ...string) keywordRule {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		fields := strings.Fields(strings.ToLower(w))
		for i, f := range fields {
			fields[i] = regexp.QuoteMeta(f)
		}
		parts = append(parts, strings.Join(fields, `[\s-]*`))
	}
	return keywordRule{
		label: label,
		re:    regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`),
	}
}

// firstLabel returns the label of the first rule that matches text.
func firstLabel(rules []keywordRule, text string) string {
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.label
		}
	}
	return ""
}

// TitleCase upper-cases the first letter and lower-cases the rest:
// "three WHEELER" -> "Three wheeler".
func TitleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	runes := []rune(s)
	// a Caser keeps state, so each call gets its own
	first := []rune(cases.Upper(language.English).String(string(runes[0])))
	return string(first) + string(runes[1:])
}
