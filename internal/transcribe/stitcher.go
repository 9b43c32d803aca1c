package transcribe

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Stitch combines per-chunk transcripts, ordered by chunk index, into one
// transcript. A single input is returned unchanged. Multiple inputs are
// joined with a single space with runs of whitespace collapsed and the ends
// trimmed.
//
// No overlap de-duplication is applied: chunks are cut with an overlap so
// words at a boundary survive in at least one chunk, which means a few words
// near each boundary can appear twice in the stitched text. Downstream
// consumers tolerate this.
func Stitch(texts []string) string {
	switch len(texts) {
	case 0:
		return ""
	case 1:
		return texts[0]
	}

	joined := strings.Join(texts, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(joined, " "))
}
