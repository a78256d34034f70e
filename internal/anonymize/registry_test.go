package anonymize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_GetOrCreate(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "[PER_1]", r.GetOrCreate("PER", "John Smith"))
	assert.Equal(t, "[PER_2]", r.GetOrCreate("PER", "Mary Johnson"))
	assert.Equal(t, "[EMAIL_1]", r.GetOrCreate("EMAIL", "john@example.com"))
	assert.Equal(t, "[PER_1]", r.GetOrCreate("PER", "John Smith"), "repeated value reuses its placeholder")
}

func TestRegistry_FirstLabelWins(t *testing.T) {
	r := NewRegistry()

	first := r.GetOrCreate("ORG", "Acme")
	assert.Equal(t, "[ORG_1]", first)

	// A later occurrence classified differently keeps the original
	// placeholder and label.
	assert.Equal(t, "[ORG_1]", r.GetOrCreate("PER", "Acme"))

	stats := r.Stats()
	assert.Equal(t, 1, stats.TotalEntities)
	assert.Equal(t, map[string]int{"ORG": 1}, stats.ByCategory)
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("PER", "John Smith")
	r.GetOrCreate("PER", "Mary Johnson")
	r.GetOrCreate("EMAIL", "john@example.com")
	r.GetOrCreate("PER", "John Smith") // dedup, must not count again

	stats := r.Stats()
	assert.Equal(t, 3, stats.TotalEntities)
	assert.Equal(t, 2, stats.ByCategory["PER"])
	assert.Equal(t, 1, stats.ByCategory["EMAIL"])
}

func TestRegistry_EmptyStats(t *testing.T) {
	stats := NewRegistry().Stats()
	assert.Equal(t, 0, stats.TotalEntities)
	assert.Empty(t, stats.ByCategory)
}

func TestRegistry_MappingIsACopy(t *testing.T) {
	r := NewRegistry()
	r.GetOrCreate("PER", "John Smith")

	m := r.Mapping()
	assert.Equal(t, map[string]string{"[PER_1]": "John Smith"}, m)

	m["[PER_1]"] = "tampered"
	m["[FAKE_1]"] = "injected"

	fresh := r.Mapping()
	assert.Equal(t, map[string]string{"[PER_1]": "John Smith"}, fresh)
}
