// Package recognize adapts an external statistical entity recognizer into
// document-global, confidence-filtered spans. The recognizer itself is a
// capability boundary: anything that can classify a chunk of text into
// labeled, scored spans can be plugged in.
package recognize

import (
	"context"
	"time"

	docotel "github.com/RohanPatil7777/Document-Anonymizer/internal/otel"
)

var tracer = docotel.Tracer("github.com/RohanPatil7777/Document-Anonymizer/internal/recognize")

// TimeoutRecognize bounds a single recognizer call.
const TimeoutRecognize = 60 * time.Second

// Entity is one recognizer result. Start and End are half-open character
// offsets relative to the chunk the recognizer was given, not the document.
type Entity struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Recognizer classifies free text into labeled, scored spans.
type Recognizer interface {
	// Name returns the recognizer identifier (e.g. "rules", "http").
	Name() string
	// Recognize returns scored entity spans with offsets relative to text.
	Recognize(ctx context.Context, text string) ([]Entity, error)
}
