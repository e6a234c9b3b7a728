package ocr

import (
	"context"
	"strings"
)

// Recognizer turns a document image into the ordered sequence of text lines
// the extraction core consumes. Implementations own their engine lifecycle:
// construct once, reuse across requests, Close at process shutdown.
// Line order follows the engine's emission order; top-to-bottom reading
// order is assumed but not guaranteed.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, filename string) ([]string, error)
	Close() error
}

// SplitLines breaks raw engine output into trimmed lines, dropping blanks.
func SplitLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	return lines
}
