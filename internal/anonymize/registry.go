package anonymize

import "fmt"

// Registry assigns and remembers a stable placeholder per unique original
// value for the lifetime of one anonymization session. It is the single
// dedup authority: no other component mints placeholders or mutates the
// mappings. Not safe for concurrent use; a session processes one document
// end-to-end at a time.
type Registry struct {
	forward  map[string]string // placeholder -> original, for audit output
	reverse  map[string]string // original -> placeholder, for dedup lookup
	counters map[string]int    // label -> last issued index
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		forward:  make(map[string]string),
		reverse:  make(map[string]string),
		counters: make(map[string]int),
	}
}

// GetOrCreate returns the placeholder for original, minting "[LABEL_n]"
// with a per-label 1-based counter on first sight. A repeated value keeps
// the placeholder (and therefore the label) it first received, even when a
// later occurrence is classified differently.
func (r *Registry) GetOrCreate(label, original string) string {
	if p, ok := r.reverse[original]; ok {
		return p
	}
	r.counters[label]++
	p := fmt.Sprintf("[%s_%d]", label, r.counters[label])
	r.forward[p] = original
	r.reverse[original] = p
	return p
}

// Mapping returns a copy of the placeholder -> original mapping.
func (r *Registry) Mapping() map[string]string {
	m := make(map[string]string, len(r.forward))
	for k, v := range r.forward {
		m[k] = v
	}
	return m
}

// Stats derives entity statistics entirely from the registry counters, so
// counts can never drift from the issued placeholders.
func (r *Registry) Stats() Statistics {
	stats := Statistics{ByCategory: make(map[string]int, len(r.counters))}
	for label, n := range r.counters {
		stats.ByCategory[label] = n
		stats.TotalEntities += n
	}
	return stats
}
