// Package normalize repairs text extraction artifacts before any detection
// runs. All downstream offsets are computed against the normalized output,
// so normalization happens exactly once per document and must be
// deterministic.
package normalize

import (
	"regexp"
	"strings"
)

// The rules run in a fixed order; each rule assumes the prior one already
// ran (e.g. email re-glue relies on whitespace having been collapsed).
var (
	hyphenBreak  = regexp.MustCompile(`-\s*\n\s*`)
	lowerJoin    = regexp.MustCompile("\n([a-z])")
	upperBreak   = regexp.MustCompile("\n([A-Z])")
	whitespace   = regexp.MustCompile(`\s+`)
	splitEmail   = regexp.MustCompile(`([A-Za-z0-9._%+-])\s*@\s*([A-Za-z0-9.-]+)`)
	splitURL     = regexp.MustCompile(`www\.\s*([A-Za-z0-9.-]+)`)
	splitCapital = regexp.MustCompile(`\b([A-Z])\s+([a-z])`)
)

// Normalize cleans raw extracted text:
//
//  1. hyphen-terminated line breaks are joined ("word-\nbreak" -> "wordbreak")
//  2. a line break before a lowercase letter joins with no inserted character
//  3. a line break before an uppercase letter becomes a single space
//  4. whitespace runs collapse to one space; leading/trailing space is trimmed
//  5. emails split around "@" are re-glued ("john @ example.com")
//  6. URLs split after "www." are re-glued
//  7. a lone capital separated from a lowercase run is re-glued ("R obert")
//
// Empty input yields empty output.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	text := hyphenBreak.ReplaceAllString(raw, "")
	text = lowerJoin.ReplaceAllString(text, "$1")
	text = upperBreak.ReplaceAllString(text, " $1")
	text = whitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = splitEmail.ReplaceAllString(text, "$1@$2")
	text = splitURL.ReplaceAllString(text, "www.$1")
	text = splitCapital.ReplaceAllString(text, "$1$2")
	return text
}
