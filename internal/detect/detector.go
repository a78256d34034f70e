// Package detect finds syntactically regular identifiers (emails, phone
// numbers, URLs) in normalized text using configurable regex recognizers.
package detect

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	docotel "github.com/RohanPatil7777/Document-Anonymizer/internal/otel"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/entity"
)

var tracer = docotel.Tracer("github.com/RohanPatil7777/Document-Anonymizer/internal/detect")

// MinMatchLen is the minimum trimmed length of an accepted match. Anything
// shorter is treated as detector noise and discarded.
const MinMatchLen = 3

// Detector applies a compiled set of regex rules over normalized text.
type Detector struct {
	rules []Rule
}

// Option configures a Detector via the functional options pattern.
type Option func(*detectorConfig)

type detectorConfig struct {
	patternFile    string
	enabledLabels  []string
	disabledLabels []string
	custom         []RecognizerConfig
}

// WithPatternFile loads additional recognizers from an override YAML file.
// If the file does not exist, it is silently skipped.
func WithPatternFile(path string) Option {
	return func(c *detectorConfig) { c.patternFile = path }
}

// WithEnabledLabels sets a whitelist of entity labels. When non-empty, only
// recognizers with a matching supported_entity are active.
func WithEnabledLabels(labels []string) Option {
	return func(c *detectorConfig) { c.enabledLabels = labels }
}

// WithDisabledLabels sets a blacklist of entity labels to exclude.
func WithDisabledLabels(labels []string) Option {
	return func(c *detectorConfig) { c.disabledLabels = labels }
}

// WithCustomRecognizers adds caller-supplied recognizer definitions as the
// last merge layer.
func WithCustomRecognizers(recognizers []RecognizerConfig) Option {
	return func(c *detectorConfig) { c.custom = recognizers }
}

// NewDetector creates a pattern detector. Without options it uses the
// embedded defaults; options layer an override file and custom recognizers
// on top.
func NewDetector(opts ...Option) (*Detector, error) {
	var cfg detectorConfig
	for _, o := range opts {
		o(&cfg)
	}

	defaults, err := DefaultRecognizers()
	if err != nil {
		return nil, fmt.Errorf("loading default recognizers: %w", err)
	}

	var overrides []RecognizerConfig
	if cfg.patternFile != "" {
		rf, err := LoadRecognizerFile(cfg.patternFile)
		if err != nil {
			return nil, fmt.Errorf("loading pattern override file: %w", err)
		}
		if rf != nil {
			overrides = rf.Recognizers
		}
	}

	merged := MergeRecognizers(defaults, overrides, cfg.custom)
	merged = FilterByLabels(merged, cfg.enabledLabels, cfg.disabledLabels)

	rules, err := CompileRules(merged)
	if err != nil {
		return nil, fmt.Errorf("compiling patterns: %w", err)
	}

	return &Detector{rules: rules}, nil
}

// MustNewDetector is like NewDetector but panics on error. Useful for
// zero-config startup where the embedded defaults are expected to always
// compile.
func MustNewDetector(opts ...Option) *Detector {
	d, err := NewDetector(opts...)
	if err != nil {
		panic(fmt.Sprintf("detect.NewDetector: %v", err))
	}
	return d
}

// Detect scans normalized text and returns labeled spans in discovery order
// (rule order, then match order). Matches whose trimmed text is shorter
// than MinMatchLen are discarded. Global ordering across sources is imposed
// later by the reconciler.
func (d *Detector) Detect(ctx context.Context, text string) []entity.Span {
	_, span := tracer.Start(ctx, "detect.patterns")
	defer span.End()

	var spans []entity.Span
	for _, rule := range d.rules {
		for _, m := range rule.Pattern.FindAllStringIndex(text, -1) {
			value := strings.TrimSpace(text[m[0]:m[1]])
			if len(value) < MinMatchLen {
				continue
			}
			spans = append(spans, entity.Span{
				Start: m[0],
				End:   m[1],
				Label: rule.Label,
				Text:  value,
			})
		}
	}

	span.SetAttributes(attribute.Int("detect.span_count", len(spans)))
	return spans
}
