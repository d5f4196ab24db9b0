package llm

import (
	"regexp"
	"strings"
)

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

// CleanCompletion strips the decoration models add around plain-text
// answers even when asked not to: a surrounding markdown code fence and a
// single pair of wrapping quotes.
func CleanCompletion(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			inner := text[1 : len(text)-1]
			if !strings.ContainsRune(inner, rune(first)) {
				text = strings.TrimSpace(inner)
			}
		}
	}

	return text
}

// SplitList parses a comma-separated completion such as "Go, Kubernetes,
// SQL" into trimmed, non-empty items. Newline- or bullet-separated answers
// are accepted too.
func SplitList(text string) []string {
	text = CleanCompletion(text)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(f), ""))
		f = strings.TrimSuffix(f, ".")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
