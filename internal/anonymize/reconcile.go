package anonymize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/entity"
)

// minSpanLen is the shared floor for any span from either source; shorter
// trimmed text is extraction noise, never a real identifier.
const minSpanLen = 3

var (
	personShape = regexp.MustCompile(`^[A-Z][a-z]+\s[A-Z][a-z]+$`)
	corpSuffix  = regexp.MustCompile(`(?i)(inc|corporation|ltd|llc|company)$`)
)

// reclassify applies label-correction heuristics to recognizer spans.
// Pattern spans are trusted as-is and never pass through here. The checks
// run in order, so an ORG reclassified to PER can still land back on ORG
// when it carries a corporate suffix.
func reclassify(s entity.Span) entity.Span {
	if s.Label == entity.LabelOrg && personShape.MatchString(s.Text) {
		s.Label = entity.LabelPerson
	}
	if s.Label == entity.LabelPerson && corpSuffix.MatchString(s.Text) {
		s.Label = entity.LabelOrg
	}
	return s
}

// replacement is one placeholder splice, resolved and ready to apply.
type replacement struct {
	start, end  int
	placeholder string
	pattern     bool // pattern-sourced spans win overlap conflicts
}

// reconcile merges spans from both detectors into one splice plan and
// rewrites the text. Pattern spans resolve placeholders first so their
// labels win ties for the same literal text. Splicing runs strictly
// right-to-left so coordinates of earlier spans stay valid.
func (a *Anonymizer) reconcile(text string, patternSpans, entitySpans []entity.Span) string {
	repls := make([]replacement, 0, len(patternSpans)+len(entitySpans))

	for _, s := range patternSpans {
		if len(strings.TrimSpace(s.Text)) < minSpanLen {
			continue
		}
		repls = append(repls, replacement{
			start:       s.Start,
			end:         s.End,
			placeholder: a.registry.GetOrCreate(s.Label, s.Text),
			pattern:     true,
		})
	}
	for _, s := range entitySpans {
		s = reclassify(s)
		if len(strings.TrimSpace(s.Text)) < minSpanLen {
			continue
		}
		repls = append(repls, replacement{
			start:       s.Start,
			end:         s.End,
			placeholder: a.registry.GetOrCreate(s.Label, s.Text),
		})
	}

	kept := resolveOverlaps(repls)

	sort.Slice(kept, func(i, j int) bool { return kept[i].start > kept[j].start })
	out := []byte(text)
	for _, r := range kept {
		out = append(out[:r.start], append([]byte(r.placeholder), out[r.end:]...)...)
	}
	return string(out)
}

// resolveOverlaps keeps at most one replacement per overlapping region so a
// splice can never straddle another. Deterministic tie-break: pattern spans
// beat recognizer spans, longer spans beat shorter, earlier beat later.
func resolveOverlaps(repls []replacement) []replacement {
	sort.Slice(repls, func(i, j int) bool {
		a, b := repls[i], repls[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.pattern != b.pattern {
			return a.pattern
		}
		return a.end-a.start > b.end-b.start
	})

	var kept []replacement
	for _, r := range repls {
		if n := len(kept); n > 0 && r.start < kept[n-1].end {
			if r.pattern && !kept[n-1].pattern {
				kept[n-1] = r
			}
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
