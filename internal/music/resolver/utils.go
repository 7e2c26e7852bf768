package resolver

import (
	"net/url"
	"strings"
)

const (
	searchPrefix   = "ytsearch:"
	fallbackPrefix = "scsearch:"
)

// BuildIdentifier turns a raw query into a node identifier and reports
// whether the query was a link. Links pass through (YouTube links
// normalized first); everything else becomes a primary keyword search.
func BuildIdentifier(query string) (identifier string, isLink bool) {
	if isURL(query) {
		return cleanYouTubeURL(query), true
	}
	return searchPrefix + query, false
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// cleanYouTubeURL strips playlist and tracking params from a YouTube
// watch link so the node loads the one video instead of a whole list.
// Anything unparseable or non-YouTube passes through untouched.
func cleanYouTubeURL(input string) string {
	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	if !strings.Contains(u.Hostname(), "youtube.com") {
		return input
	}
	if v := u.Query().Get("v"); v != "" {
		return "https://www.youtube.com/watch?v=" + v
	}
	return input
}
