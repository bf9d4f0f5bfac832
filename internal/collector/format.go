package collector

import (
	"strings"
	"unicode/utf8"
)

// truncateBlock renders content followed by a newline, cutting it to limit
// characters and marking the cut with "...".
func truncateBlock(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content + "\n"
	}
	runes := []rune(content)
	return string(runes[:limit]) + "...\n"
}

// filterLines returns the lines of content containing any of the needles.
func filterLines(content string, needles []string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		for _, n := range needles {
			if strings.Contains(line, n) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

// stripNewlines removes every CR and LF.
func stripNewlines(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// shellQuote wraps s in single quotes for sh -c, escaping embedded quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
