package linktext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// paragraphBreakRe matches a blank-line run, including whitespace-only lines.
var paragraphBreakRe = regexp.MustCompile(`\n\s*\n`)

// Normalize joins content fragments into one text block with exactly one
// blank line between fragments. Every whitespace run inside a fragment,
// newlines included, becomes a single space, so only fragment boundaries
// survive as paragraph breaks. Whitespace-only fragments are dropped.
func Normalize(fragments []string) string {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = collapse(f); f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, "\n\n")
}

// NormalizeText collapses whitespace inside each paragraph of s to single
// spaces and re-joins the paragraphs with exactly one blank line.
// Whitespace-only paragraphs are dropped. NormalizeText is idempotent.
func NormalizeText(s string) string {
	return Normalize(paragraphBreakRe.Split(s, -1))
}

func collapse(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return norm.NFC.String(s)
}
