package linktext

import (
	"strings"
	"unicode/utf8"
)

// NoLinksMessage is returned instead of an aggregate document when no links
// were requested.
const NoLinksMessage = "No links provided to scrape."

// TruncationMarker ends an aggregate document that was cut to fit its
// maximum length.
const TruncationMarker = "...[content truncated due to length]"

// Aggregate renders blocks as sections in order and caps the result at
// maxLength characters. When the sections do not fit, the text is cut and
// TruncationMarker is appended so the total stays within maxLength.
// A maxLength of zero or less disables the cap.
func Aggregate(blocks []*SourceBlock, maxLength int) string {
	sections := make([]string, len(blocks))
	for i, b := range blocks {
		sections[i] = b.String()
	}
	return Truncate(strings.Join(sections, "\n"), maxLength)
}

// Truncate cuts s to at most maxLength characters, ending it with
// TruncationMarker when anything was removed. The cut is by character count
// and never splits a multi-byte character.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(s) <= maxLength {
		return s
	}

	markerLen := utf8.RuneCountInString(TruncationMarker)
	if maxLength <= markerLen {
		return prefixRunes(TruncationMarker, maxLength)
	}
	return prefixRunes(s, maxLength-markerLen) + TruncationMarker
}

// prefixRunes returns the first n runes of s.
func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
