package extract

import (
	"regexp"
	"strings"
)

var chunkSeparator = regexp.MustCompile(`\n{2,}`)

// SplitChunks splits extracted text into paragraph segments on runs of two
// or more consecutive newlines. Segments are trimmed, empty segments are
// discarded, and source order is preserved.
func SplitChunks(text string) []string {
	var chunks []string
	for _, segment := range chunkSeparator.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		chunks = append(chunks, segment)
	}
	return chunks
}
