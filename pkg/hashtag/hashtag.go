// Package hashtag extracts #tags from memo titles and message content.
// The character class covers word characters plus hiragana, katakana and
// CJK ideographs, matching the tags the product's users actually write.
package hashtag

import "regexp"

var hashtagPattern = regexp.MustCompile(`#[\w\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{3400}-\x{4DBF}]+`)

// Extract returns all hashtags found in text, including the leading '#',
// in order of appearance. Returns an empty slice when there are none.
func Extract(text string) []string {
	tags := hashtagPattern.FindAllString(text, -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

// Contains reports whether text carries the given hashtag (with '#').
func Contains(text, tag string) bool {
	for _, t := range Extract(text) {
		if t == tag {
			return true
		}
	}
	return false
}
