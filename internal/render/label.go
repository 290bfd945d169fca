package render

import (
	"strings"
	"unicode/utf8"
)

// DefaultWrapWidth is the widest label line, in characters, that fits a node.
const DefaultWrapWidth = 15

// WrapLabel breaks label at spaces into lines of at most width characters.
// A single word longer than width gets a line of its own.
func WrapLabel(label string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	var lines []string
	var cur []string
	curLen := 0
	for _, word := range strings.Fields(label) {
		n := utf8.RuneCountInString(word)
		if len(cur) > 0 && curLen+len(cur)+n > width {
			lines = append(lines, strings.Join(cur, " "))
			cur, curLen = nil, 0
		}
		cur = append(cur, word)
		curLen += n
	}
	if len(cur) > 0 {
		lines = append(lines, strings.Join(cur, " "))
	}
	return lines
}
