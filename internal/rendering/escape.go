package rendering

import "strings"

var latexReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	"–", "--",
	"—", "---",
)

// EscapeLaTeX escapes the characters LaTeX treats specially and maps en and
// em dashes to their ligature forms.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return latexReplacer.Replace(text)
}
