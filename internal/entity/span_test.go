package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanValid(t *testing.T) {
	tests := []struct {
		name string
		span Span
		len  int
		want bool
	}{
		{"in bounds", Span{Start: 0, End: 5}, 10, true},
		{"exact document", Span{Start: 0, End: 10}, 10, true},
		{"negative start", Span{Start: -1, End: 5}, 10, false},
		{"end past document", Span{Start: 0, End: 11}, 10, false},
		{"empty span", Span{Start: 3, End: 3}, 10, false},
		{"inverted", Span{Start: 5, End: 2}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.span.Valid(tt.len))
		})
	}
}

func TestIsPatternLabel(t *testing.T) {
	assert.True(t, IsPatternLabel(LabelEmail))
	assert.True(t, IsPatternLabel(LabelPhone))
	assert.True(t, IsPatternLabel(LabelURL))
	assert.False(t, IsPatternLabel(LabelPerson))
	assert.False(t, IsPatternLabel(LabelOrg))
	assert.False(t, IsPatternLabel("MISC"))
}
