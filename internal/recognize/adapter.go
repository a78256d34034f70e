package recognize

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/entity"
)

const (
	// minEntityLen drops recognizer fragments before merging; the
	// reconciler applies its own stricter floor afterwards.
	minEntityLen = 2

	// mergeGapChars is the maximum gap between adjacent same-label spans
	// that still merges them into one entity. Handles recognizers that
	// split a single entity into adjacent sub-tokens.
	mergeGapChars = 1
)

// Adapter runs a Recognizer over sentence-bounded chunks and lifts
// chunk-local spans into document-global coordinates.
type Adapter struct {
	recognizer Recognizer
	threshold  float64
	maxWords   int
}

// NewAdapter wires a recognizer with a confidence threshold and a chunk
// word cap. Configuration is validated by the anonymization session, not
// here.
func NewAdapter(r Recognizer, threshold float64, maxWords int) *Adapter {
	return &Adapter{recognizer: r, threshold: threshold, maxWords: maxWords}
}

// Detect returns document-global entity spans for labels outside the
// pattern detector's ownership. Chunks are processed strictly sequentially;
// the first recognizer failure aborts the whole call (partial results from
// earlier chunks are not salvaged).
func (a *Adapter) Detect(ctx context.Context, text string) ([]entity.Span, error) {
	ctx, span := tracer.Start(ctx, "recognize.detect")
	defer span.End()

	var spans []entity.Span
	for _, chunk := range SplitChunks(text, a.maxWords) {
		ents, err := a.recognizer.Recognize(ctx, chunk.Text)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("recognizing chunk at offset %d: %w", chunk.Offset, err)
		}

		for _, ent := range ents {
			label := strings.ToUpper(ent.Label)
			if entity.IsPatternLabel(label) {
				continue // owned by the pattern detector
			}
			if ent.Score < a.threshold {
				continue
			}

			start := ent.Start + chunk.Offset
			end := ent.End + chunk.Offset
			s := entity.Span{Start: start, End: end, Label: label}
			if !s.Valid(len(text)) {
				continue // recognizer returned offsets outside its chunk
			}
			s.Text = strings.TrimSpace(text[start:end])
			if len(s.Text) < minEntityLen {
				continue
			}

			// Merge against the immediately preceding accepted span only.
			if n := len(spans); n > 0 && spans[n-1].Label == label && start <= spans[n-1].End+mergeGapChars {
				prev := &spans[n-1]
				prev.Text = strings.TrimSpace(prev.Text + " " + s.Text)
				prev.End = end
				continue
			}
			spans = append(spans, s)
		}
	}

	span.SetAttributes(attribute.Int("recognize.span_count", len(spans)))
	return spans, nil
}
