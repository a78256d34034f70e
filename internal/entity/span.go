// Package entity defines the span model shared by the pattern detector,
// the recognizer adapter, and the reconciler.
package entity

// Well-known entity labels. Pattern-owned labels come from the regex
// detector; the rest come from the statistical recognizer. The label set is
// open: a recognizer may emit labels outside this list (e.g. MISC) and they
// flow through unchanged.
const (
	LabelEmail    = "EMAIL"
	LabelPhone    = "PHONE"
	LabelURL      = "URL"
	LabelPerson   = "PER"
	LabelOrg      = "ORG"
	LabelLocation = "LOC"
)

// patternLabels are owned by the pattern detector; the recognizer adapter
// drops spans carrying these labels so a single source is authoritative
// per label.
var patternLabels = map[string]bool{
	LabelEmail: true,
	LabelPhone: true,
	LabelURL:   true,
}

// IsPatternLabel reports whether the label is owned by the pattern detector.
func IsPatternLabel(label string) bool { return patternLabels[label] }

// Span is a labeled, offset-addressed substring candidate for redaction.
// Start and End are half-open character offsets into the normalized
// document, satisfying 0 <= Start < End <= len(document). Text holds the
// trimmed original text at those offsets.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Valid reports whether the span's offsets address the given document.
func (s Span) Valid(docLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= docLen
}
