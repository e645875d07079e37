// Package corpus loads and normalizes the (query, response) grounding
// examples available to retrieval.
package corpus

import (
	"regexp"
	"strings"
)

var (
	smartQuotes  = strings.NewReplacer("’", "'", "“", `"`, "”", `"`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9'\- \n\r\t.,!?:;()]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for indexing and matching: lowercase,
// smart quotes folded, disallowed characters stripped, whitespace
// collapsed. The same function is applied to corpus queries and incoming
// messages; the two sides must never diverge or similarity scores become
// meaningless. Normalize is idempotent.
func Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = smartQuotes.Replace(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
