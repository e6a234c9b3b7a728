package extract

import (
	"regexp"
	"strings"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// Normalize collapses the recognizer's ordered line sequence into the two
// text forms the extractors work on: a line-preserving block for
// position-sensitive rules and a single-line, whitespace-collapsed form for
// pattern search.
func Normalize(lines []string) (block, flat string) {
	block = strings.Join(lines, "\n")
	return block, Flatten(block)
}

// Flatten replaces newlines with spaces and collapses every whitespace run
// to a single space.
func Flatten(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}
