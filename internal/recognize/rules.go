package recognize

import (
	"context"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/entity"
)

// RuleRecognizer is an offline heuristic recognizer. It detects runs of
// capitalized words and classifies them as PER, ORG, or LOC with fixed
// confidence scores. It exists so the pipeline works with zero external
// services; swap in an HTTPRecognizer for model-backed recognition.
type RuleRecognizer struct{}

// NewRuleRecognizer creates the heuristic recognizer.
func NewRuleRecognizer() *RuleRecognizer {
	return &RuleRecognizer{}
}

// Name returns the recognizer identifier.
func (r *RuleRecognizer) Name() string {
	return "rules"
}

// nameShape matches a single capitalized word with a lowercase tail.
var nameShape = regexp.MustCompile(`^[A-Z][a-z]+$`)

// corpSuffixes mark a run as an organization when they terminate it.
var corpSuffixes = map[string]bool{
	"inc": true, "corp": true, "corporation": true, "ltd": true,
	"llc": true, "co": true, "company": true, "gmbh": true, "ag": true,
}

// locPreps suggest a location when they immediately precede a run.
var locPreps = map[string]bool{"in": true, "near": true}

// orgPreps suggest an organization when they immediately precede a run.
var orgPreps = map[string]bool{"at": true, "for": true}

// stopwords are capitalized words that never join an entity run. Mostly
// sentence starters and common imperative openers in correspondence.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "this": true, "that": true,
	"these": true, "those": true, "it": true, "its": true, "he": true,
	"she": true, "they": true, "we": true, "i": true, "you": true,
	"my": true, "our": true, "your": true, "his": true, "her": true,
	"their": true, "in": true, "on": true, "at": true, "by": true,
	"of": true, "to": true, "for": true, "from": true, "with": true,
	"and": true, "but": true, "or": true, "if": true, "as": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
	"been": true, "do": true, "does": true, "did": true, "can": true,
	"could": true, "will": true, "would": true, "should": true,
	"may": true, "might": true, "must": true, "not": true, "no": true,
	"yes": true, "all": true, "any": true, "some": true, "each": true,
	"every": true, "both": true, "more": true, "most": true,
	"other": true, "another": true, "such": true, "only": true,
	"also": true, "just": true, "here": true, "there": true,
	"now": true, "then": true, "when": true, "where": true,
	"what": true, "who": true, "why": true, "how": true,
	"dear": true, "hello": true, "hi": true, "please": true,
	"contact": true, "call": true, "ask": true, "email": true, "phone": true,
	"visit": true, "see": true, "thanks": true, "thank": true,
	"regards": true, "sincerely": true, "best": true, "subject": true,
	"date": true, "re": true, "note": true,
}

// Recognize scans the chunk for capitalized runs and classifies them.
// Offsets are relative to the chunk. Never returns an error; the signature
// satisfies the Recognizer capability boundary.
func (r *RuleRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	_, span := tracer.Start(ctx, "recognize.rules")
	defer span.End()

	toks := tokenize(text)
	var out []Entity

	i := 0
	for i < len(toks) {
		if !runToken(toks[i]) {
			i++
			continue
		}
		j := i
		for j+1 < len(toks) && runToken(toks[j+1]) && !toks[j+1].sentenceStart &&
			toks[j+1].start == toks[j].rawEnd+1 {
			j++
		}
		if ent, ok := classifyRun(toks, i, j); ok {
			out = append(out, ent)
		}
		i = j + 1
	}

	span.SetAttributes(attribute.Int("rules.entity_count", len(out)))
	return out, nil
}

// runToken reports whether a token can be part of an entity run.
func runToken(t token) bool {
	return isCapitalized(t.text) && !stopwords[strings.ToLower(t.text)]
}

// classifyRun labels the token run toks[i:j+1]. The checks are ordered by
// signal strength: corporate suffix, location preposition, two-word person
// shape, organization preposition, generic multi-word, lone mid-sentence
// name.
func classifyRun(toks []token, i, j int) (Entity, bool) {
	run := toks[i : j+1]
	ent := Entity{Start: run[0].start, End: run[len(run)-1].end}

	preceding := ""
	if i > 0 && !run[0].sentenceStart {
		preceding = strings.ToLower(toks[i-1].text)
	}

	last := strings.ToLower(run[len(run)-1].text)
	allNameShaped := true
	for _, t := range run {
		if !nameShape.MatchString(t.text) {
			allNameShaped = false
			break
		}
	}

	switch {
	case corpSuffixes[last] && len(run) >= 2:
		ent.Label, ent.Score = entity.LabelOrg, 0.9
	case locPreps[preceding]:
		ent.Label, ent.Score = entity.LabelLocation, 0.8
	case len(run) == 2 && allNameShaped:
		ent.Label, ent.Score = entity.LabelPerson, 0.85
	case orgPreps[preceding]:
		ent.Label, ent.Score = entity.LabelOrg, 0.7
	case len(run) >= 2:
		ent.Label, ent.Score = entity.LabelPerson, 0.65
	case nameShape.MatchString(run[0].text) && !run[0].sentenceStart:
		ent.Label, ent.Score = entity.LabelPerson, 0.55
	default:
		return Entity{}, false
	}
	return ent, true
}

// token is one whitespace-delimited word with surrounding punctuation
// stripped. start/end address the stripped text; rawEnd is the offset just
// past the unstripped word, used to require single-space adjacency in runs.
type token struct {
	start, end    int
	rawEnd        int
	text          string
	sentenceStart bool
}

func tokenize(text string) []token {
	var toks []token
	sentStart := true
	i := 0
	for i < len(text) {
		if isSpace(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && !isSpace(text[j]) {
			j++
		}
		s, e := i, j
		for s < e && isPunct(text[s]) {
			s++
		}
		for e > s && isPunct(text[e-1]) {
			e--
		}
		if e > s {
			toks = append(toks, token{
				start:         s,
				end:           e,
				rawEnd:        j,
				text:          text[s:e],
				sentenceStart: sentStart,
			})
		}
		c := text[j-1]
		sentStart = c == '.' || c == '!' || c == '?'
		i = j
	}
	return toks
}

func isCapitalized(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for k := 1; k < len(s); k++ {
		c := s[k]
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			c == '&' || c == '.' || c == '-' || c == '\''
		if !ok {
			return false
		}
	}
	return true
}

func isPunct(c byte) bool {
	switch c {
	case '.', ',', ';', ':', '!', '?', '(', ')', '"', '\'', '[', ']', '{', '}':
		return true
	}
	return false
}
