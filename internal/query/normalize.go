// Package query turns free-text topics into Wikipedia article titles and URLs.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ArticleBaseURL is the English Wikipedia article path prefix
const ArticleBaseURL = "https://en.wikipedia.org/wiki/"

// Normalize converts a raw query into a canonical article title:
// each whitespace-separated word is capitalized and words are joined with "_".
// Empty or whitespace-only input yields "".
func Normalize(raw string) string {
	return strings.Join(strings.Fields(CapWords(raw)), "_")
}

// CapWords splits s on whitespace, capitalizes each word and rejoins them with
// single spaces.
func CapWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// capitalize upper-cases the first rune and lower-cases the rest.
// A leading non-letter is left as-is, so "(band)" stays "(band)".
func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError && size <= 1 {
		return strings.ToLower(word)
	}
	return string(unicode.ToTitle(first)) + strings.ToLower(word[size:])
}

// BuildURL appends title to the Wikipedia article prefix.
// The title is not escaped; characters that need percent-encoding pass through as-is.
func BuildURL(title string) string {
	return ArticleBaseURL + title
}

// BuildURLWithBase appends title to base, adding a trailing slash to base if needed.
// An empty base falls back to ArticleBaseURL.
func BuildURLWithBase(base, title string) string {
	if base == "" {
		return BuildURL(title)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + title
}
