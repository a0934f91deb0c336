package tools

import (
	"regexp"
	"strings"
)

var (
	explicitURLPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)
	bareDomainPattern  = regexp.MustCompile(`(?i)\b[a-z0-9][a-z0-9-]*(?:\.[a-z0-9][a-z0-9-]*)*\.(?:com|org|net|io|edu|gov|dev|ai|co|us|uk)\b(?:/[^\s<>"']*)?`)
)

// urlContextKeywords mark text whose trailing words may name a target site.
var urlContextKeywords = []string{"website", "url", "scrape"}

// hasURL reports whether the query contains an explicit http(s):// or www.
// URL.
func hasURL(query string) bool {
	return explicitURLPattern.MatchString(query)
}

// hasBareDomain reports whether the query contains a bare domain like
// "example.com".
func hasBareDomain(query string) bool {
	return bareDomainPattern.MatchString(query)
}

// ExtractURL recovers a target URL from free text, trying in order: an
// explicit http(s):// or www. URL, a bare domain, and a domain mentioned
// after a keyword like "website". Absence is an expected outcome, reported
// as "".
func ExtractURL(query string) string {
	if m := explicitURLPattern.FindString(query); m != "" {
		m = trimURLPunctuation(m)
		if strings.HasPrefix(strings.ToLower(m), "www.") {
			return "https://" + m
		}
		return m
	}

	if m := bareDomainPattern.FindString(query); m != "" {
		return "https://" + trimURLPunctuation(m)
	}

	lower := strings.ToLower(query)
	for _, kw := range urlContextKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		rest := query[idx+len(kw):]
		for _, word := range strings.Fields(rest) {
			word = trimURLPunctuation(word)
			if strings.Count(word, ".") >= 1 && !strings.HasSuffix(word, ".") && !strings.ContainsAny(word, "@") {
				return "https://" + word
			}
		}
	}

	return ""
}

// trimURLPunctuation strips sentence punctuation that the patterns may drag
// in at the end of a match.
func trimURLPunctuation(s string) string {
	return strings.TrimRight(s, ".,;:!?)('\"")
}
