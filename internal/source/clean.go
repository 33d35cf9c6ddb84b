package source

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var noise = regexp.MustCompile(`[a-zA-Z\p{Nd}:()/"]`)

// CleanLine blanks Latin letters, digits and a few punctuation marks, then
// drops words of a single character.
func CleanLine(line string) string {
	fields := strings.Fields(noise.ReplaceAllString(line, " "))
	kept := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// Clean applies CleanLine to every line and joins the results with spaces.
func Clean(text string) string {
	var b strings.Builder
	for line := range strings.Lines(text) {
		b.WriteByte(' ')
		b.WriteString(CleanLine(line))
	}
	return b.String()
}
