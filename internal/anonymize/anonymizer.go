// Package anonymize orchestrates PII redaction over free-form document
// text: normalization, pattern and recognizer detection, placeholder
// assignment, and offset-safe rewriting.
package anonymize

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/detect"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/normalize"
	docotel "github.com/RohanPatil7777/Document-Anonymizer/internal/otel"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/recognize"
)

var tracer = docotel.Tracer("github.com/RohanPatil7777/Document-Anonymizer/internal/anonymize")

// DefaultThreshold is the minimum recognizer confidence for a span to be
// accepted.
const DefaultThreshold = 0.5

// Domain errors. Configuration is validated at session construction so a
// bad threshold or chunk size never surfaces mid-document.
var (
	ErrInvalidThreshold = errors.New("confidence threshold must be within [0, 1]")
	ErrInvalidChunkSize = errors.New("max chunk words must be positive")
)

// Anonymizer is one anonymization session. The embedded registry keeps
// placeholder assignment stable across every Anonymize call made on the
// same session. Sessions are not safe for concurrent use: one session
// processes one document end-to-end before the next begins.
type Anonymizer struct {
	detector *detect.Detector
	adapter  *recognize.Adapter
	registry *Registry
}

// Option configures an Anonymizer via the functional options pattern.
type Option func(*sessionConfig)

type sessionConfig struct {
	recognizer  recognize.Recognizer
	detector    *detect.Detector
	threshold   float64
	maxWords    int
	patternFile string
}

// WithRecognizer injects the statistical entity recognizer. Defaults to the
// offline RuleRecognizer.
func WithRecognizer(r recognize.Recognizer) Option {
	return func(c *sessionConfig) { c.recognizer = r }
}

// WithThreshold overrides the recognizer confidence threshold.
func WithThreshold(threshold float64) Option {
	return func(c *sessionConfig) { c.threshold = threshold }
}

// WithMaxChunkWords overrides the recognizer chunk word cap.
func WithMaxChunkWords(maxWords int) Option {
	return func(c *sessionConfig) { c.maxWords = maxWords }
}

// WithPatternFile layers a pattern override YAML file onto the embedded
// detector defaults. Ignored when WithDetector is also given.
func WithPatternFile(path string) Option {
	return func(c *sessionConfig) { c.patternFile = path }
}

// WithDetector injects a pre-built pattern detector.
func WithDetector(d *detect.Detector) Option {
	return func(c *sessionConfig) { c.detector = d }
}

// New creates an anonymization session. Invalid configuration fails here,
// not lazily during Anonymize.
func New(opts ...Option) (*Anonymizer, error) {
	cfg := sessionConfig{
		threshold: DefaultThreshold,
		maxWords:  recognize.DefaultMaxChunkWords,
	}
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.threshold < 0 || cfg.threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, cfg.threshold)
	}
	if cfg.maxWords <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, cfg.maxWords)
	}

	detector := cfg.detector
	if detector == nil {
		var err error
		detector, err = detect.NewDetector(detect.WithPatternFile(cfg.patternFile))
		if err != nil {
			return nil, fmt.Errorf("building pattern detector: %w", err)
		}
	}

	recognizer := cfg.recognizer
	if recognizer == nil {
		recognizer = recognize.NewRuleRecognizer()
	}

	return &Anonymizer{
		detector: detector,
		adapter:  recognize.NewAdapter(recognizer, cfg.threshold, cfg.maxWords),
		registry: NewRegistry(),
	}, nil
}

// Must is like New but panics on error. Useful for zero-config startup
// where the embedded defaults are expected to always compile.
func Must(opts ...Option) *Anonymizer {
	a, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("anonymize.New: %v", err))
	}
	return a
}

// Anonymize redacts PII from text and returns the redacted text, the
// session statistics, and the reversible placeholder mapping. Both
// detectors run over the same normalized buffer so every offset addresses
// one immutable coordinate space. A recognizer failure aborts the call;
// nothing from the failed document is salvaged. Empty input returns an
// empty result, not an error.
func (a *Anonymizer) Anonymize(ctx context.Context, text string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "anonymize")
	defer span.End()

	normalized := normalize.Normalize(text)

	patternSpans := a.detector.Detect(ctx, normalized)
	entitySpans, err := a.adapter.Detect(ctx, normalized)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("detecting entities: %w", err)
	}

	redacted := a.reconcile(normalized, patternSpans, entitySpans)

	stats := a.registry.Stats()
	span.SetAttributes(
		attribute.Int("anonymize.total_entities", stats.TotalEntities),
		attribute.Int("anonymize.input_chars", len(text)),
	)

	return &Result{
		AnonymizedText: redacted,
		Statistics:     stats,
		EntityMapping:  a.registry.Mapping(),
	}, nil
}
