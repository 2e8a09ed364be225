package ai

import (
	"regexp"
	"strings"
)

var fenceOpen = regexp.MustCompile("(?i)```json")

// Sanitize strips markdown code-fence markers from a completion reply.
// Models sometimes wrap JSON in ```json ... ``` blocks despite being asked
// not to. Always returns a string; whether the remainder is valid JSON is
// the caller's problem.
func Sanitize(text string) string {
	text = fenceOpen.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
