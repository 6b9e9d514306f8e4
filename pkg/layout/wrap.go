// Package layout breaks text into lines that fit a pixel width.
package layout

import "strings"

// Wrap greedily packs the words of text into lines no wider than maxWidth.
//
// Words are never split. A word wider than maxWidth is placed alone on its
// own line and allowed to overflow. Empty or whitespace-only text yields a
// single empty line.
func Wrap(m Measurer, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if w, _ := m.Measure(candidate); w <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	lines = append(lines, line)

	return lines
}
