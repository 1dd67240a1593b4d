package gateway

import (
	"strings"
	"unicode"
)

// normalizeCategory reduces a model answer to one label word. Markdown fences,
// emphasis and quotes are dropped first.
func normalizeCategory(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, r := range []string{"```json", "```text", "```", "`"} {
		s = strings.ReplaceAll(s, r, "")
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '/'
	})
	if len(fields) == 0 {
		return ""
	}
	word := strings.TrimFunc(fields[0], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	return word
}

// dedupe keeps the first occurrence of every non-empty string.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
