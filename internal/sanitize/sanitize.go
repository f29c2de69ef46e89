// Package sanitize converts arbitrary text into safe file name components.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	forbiddenRe  = regexp.MustCompile(`[/\\:*?"<>|$']+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	underscoreRe = regexp.MustCompile(`_{2,}`)
)

// Name rewrites text so it is usable as a single path component on every
// common filesystem. Forbidden characters and whitespace runs become
// underscores, runs collapse, and edge underscores are trimmed. The result
// may be empty when the input carries no usable characters.
func Name(text string) string {
	s := forbiddenRe.ReplaceAllString(text, "_")
	s = whitespaceRe.ReplaceAllString(s, "_")
	s = underscoreRe.ReplaceAllString(s, "_")
	s = strings.TrimPrefix(s, "_")
	s = strings.TrimSuffix(s, "_")
	return s
}
