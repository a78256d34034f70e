package anonymize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/entity"
)

func span(text string, doc, label string) entity.Span {
	start := strings.Index(doc, text)
	return entity.Span{Start: start, End: start + len(text), Label: label, Text: text}
}

func TestReclassify(t *testing.T) {
	tests := []struct {
		name string
		in   entity.Span
		want string
	}{
		{
			name: "org with person shape becomes person",
			in:   entity.Span{Label: entity.LabelOrg, Text: "John Smith"},
			want: entity.LabelPerson,
		},
		{
			name: "person with corporate suffix becomes org",
			in:   entity.Span{Label: entity.LabelPerson, Text: "Smith Inc"},
			want: entity.LabelOrg,
		},
		{
			name: "org with person shape and corporate suffix stays org",
			in:   entity.Span{Label: entity.LabelOrg, Text: "Acme Inc"},
			want: entity.LabelOrg,
		},
		{
			name: "plain person untouched",
			in:   entity.Span{Label: entity.LabelPerson, Text: "John Smith"},
			want: entity.LabelPerson,
		},
		{
			name: "location untouched",
			in:   entity.Span{Label: entity.LabelLocation, Text: "Paris"},
			want: entity.LabelLocation,
		},
		{
			name: "case insensitive suffix",
			in:   entity.Span{Label: entity.LabelPerson, Text: "Initech LLC"},
			want: entity.LabelOrg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reclassify(tt.in).Label)
		})
	}
}

func TestReconcile_SplicesRightToLeft(t *testing.T) {
	a := Must()
	doc := "A john@x.com B 555-123-4567 C"
	patterns := []entity.Span{
		span("john@x.com", doc, entity.LabelEmail),
		span("555-123-4567", doc, entity.LabelPhone),
	}

	out := a.reconcile(doc, patterns, nil)
	assert.Equal(t, "A [EMAIL_1] B [PHONE_1] C", out)
}

func TestReconcile_PatternBeatsRecognizerOnOverlap(t *testing.T) {
	a := Must()
	doc := "Write to john.smith@example.com soon"
	pattern := span("john.smith@example.com", doc, entity.LabelEmail)
	// A recognizer span overlapping the email, as statistical models
	// sometimes produce around address-like tokens.
	overlap := entity.Span{
		Start: pattern.Start - 9, // covers "Write to john.smith"
		End:   pattern.Start + 10,
		Label: entity.LabelPerson,
		Text:  "Write to john.smith",
	}

	out := a.reconcile(doc, []entity.Span{pattern}, []entity.Span{overlap})
	assert.Contains(t, out, "[EMAIL_1]")
	assert.NotContains(t, out, "[PER_")
	assert.Contains(t, out, "soon")
}

func TestReconcile_LongerSpanWinsSameStart(t *testing.T) {
	a := Must()
	doc := "John Smith Jones spoke"
	short := entity.Span{Start: 0, End: 10, Label: entity.LabelPerson, Text: "John Smith"}
	long := entity.Span{Start: 0, End: 16, Label: entity.LabelPerson, Text: "John Smith Jones"}

	out := a.reconcile(doc, nil, []entity.Span{short, long})
	assert.True(t, strings.HasPrefix(out, "["), "replacement starts at offset 0")
	assert.Contains(t, out, "spoke")
	assert.NotContains(t, out, "Jones", "the longer span must cover the full name")
}

func TestReconcile_ShortSpansDropped(t *testing.T) {
	a := Must()
	doc := "Jo went home"
	frag := entity.Span{Start: 0, End: 2, Label: entity.LabelPerson, Text: "Jo"}

	out := a.reconcile(doc, nil, []entity.Span{frag})
	assert.Equal(t, doc, out)
	assert.Equal(t, 0, a.registry.Stats().TotalEntities, "dropped fragments never reach the registry")
}

func TestReconcile_DuplicateValueSamePlaceholder(t *testing.T) {
	a := Must()
	doc := "John Smith met Alice. Later John Smith left."
	first := span("John Smith", doc, entity.LabelPerson)
	second := entity.Span{
		Start: strings.LastIndex(doc, "John Smith"),
		End:   strings.LastIndex(doc, "John Smith") + len("John Smith"),
		Label: entity.LabelPerson,
		Text:  "John Smith",
	}
	alice := span("Alice", doc, entity.LabelPerson)

	out := a.reconcile(doc, nil, []entity.Span{first, alice, second})
	assert.Equal(t, 2, strings.Count(out, "[PER_1]"))
	assert.Contains(t, out, "[PER_2]")
	assert.Equal(t, 2, a.registry.Stats().TotalEntities)
}

func TestResolveOverlaps_DisjointKept(t *testing.T) {
	repls := []replacement{
		{start: 20, end: 30, placeholder: "[B]"},
		{start: 0, end: 10, placeholder: "[A]"},
	}

	kept := resolveOverlaps(repls)
	require.Len(t, kept, 2)
	assert.Equal(t, "[A]", kept[0].placeholder)
	assert.Equal(t, "[B]", kept[1].placeholder)
}

func TestResolveOverlaps_PatternReplacesKeptRecognizerSpan(t *testing.T) {
	repls := []replacement{
		{start: 0, end: 15, placeholder: "[PER_1]"},
		{start: 5, end: 20, placeholder: "[EMAIL_1]", pattern: true},
	}

	kept := resolveOverlaps(repls)
	require.Len(t, kept, 1)
	assert.Equal(t, "[EMAIL_1]", kept[0].placeholder)
}

func TestResolveOverlaps_EarlierRecognizerSpanWins(t *testing.T) {
	repls := []replacement{
		{start: 0, end: 15, placeholder: "[PER_1]"},
		{start: 5, end: 20, placeholder: "[ORG_1]"},
	}

	kept := resolveOverlaps(repls)
	require.Len(t, kept, 1)
	assert.Equal(t, "[PER_1]", kept[0].placeholder)
}
