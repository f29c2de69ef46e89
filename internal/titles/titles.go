// Package titles extracts probable track titles from free-form
// video descriptions.
package titles

import (
	"regexp"
	"strings"
)

const minTitleLength = 3

var (
	headerRe        = regexp.MustCompile(`(?i)^(track\s*list|tracklist|timestamps?|setlist|songs?)\s*:?\s*$`)
	urlRe           = regexp.MustCompile(`https?://`)
	separatorRe     = regexp.MustCompile(`^[-=_*~.#\s]+$`)
	listMarkerRe    = regexp.MustCompile(`^(?:\d{1,3}[.)]?|[-*•‣▪])\s+`)
	bareTimestampRe = regexp.MustCompile(`^\d{1,3}(?::\d{2}){1,2}(?:\.\d+)?$`)
)

// promoPhrases mark lines that are channel boilerplate, not titles.
var promoPhrases = []string{
	"download link",
	"free download",
	"follow me",
	"subscribe",
	"check out my",
	"support the artist",
	"buy it here",
}

// Extract returns the description lines that plausibly name tracks, in
// order of appearance. Headers, URLs, separator rules, promo boilerplate,
// and bare timestamps are discarded; leading list markers are stripped.
func Extract(description string) []string {
	var out []string
	for _, line := range strings.Split(description, "\n") {
		if title, ok := candidate(line); ok {
			out = append(out, title)
		}
	}
	return out
}

func candidate(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if t == "" {
		return "", false
	}
	if headerRe.MatchString(t) || urlRe.MatchString(t) || separatorRe.MatchString(t) {
		return "", false
	}
	lower := strings.ToLower(t)
	for _, phrase := range promoPhrases {
		if strings.Contains(lower, phrase) {
			return "", false
		}
	}
	t = strings.TrimSpace(listMarkerRe.ReplaceAllString(t, ""))
	if t == "" || bareTimestampRe.MatchString(t) {
		return "", false
	}
	if len([]rune(t)) < minTitleLength {
		return "", false
	}
	return t, true
}
