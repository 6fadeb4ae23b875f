package parser

import (
	"regexp"
	"strings"
)

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// StripFences removes a markdown code fence wrapped around a JSON document,
// such as ```json ... ```, so the body can be decoded.
func StripFences(raw []byte) []byte {
	text := strings.TrimSpace(string(raw))
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return []byte(strings.TrimSpace(text))
}
