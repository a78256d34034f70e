package detect

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RohanPatil7777/Document-Anonymizer/patterns"
)

// RecognizerFile is the top-level YAML structure for a pattern definition
// file. Mirrors Presidio's recognizer registry format.
type RecognizerFile struct {
	Recognizers []RecognizerConfig `yaml:"recognizers"`
}

// RecognizerConfig is one named recognizer contributing regex patterns for a
// single entity label.
type RecognizerConfig struct {
	Name            string          `yaml:"name" json:"name"`
	SupportedEntity string          `yaml:"supported_entity" json:"supported_entity"`
	Enabled         *bool           `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Patterns        []PatternConfig `yaml:"patterns,omitempty" json:"patterns,omitempty"`
}

// PatternConfig is a single regex pattern within a recognizer.
type PatternConfig struct {
	Name  string  `yaml:"name" json:"name"`
	Regex string  `yaml:"regex" json:"regex"`
	Score float64 `yaml:"score" json:"score"`
}

// isEnabled returns true if the recognizer is enabled (defaults to true when nil).
func (r *RecognizerConfig) isEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// Rule is a compiled, ready-to-use detection pattern.
type Rule struct {
	Name    string
	Label   string
	Pattern *regexp.Regexp
	Score   float64
}

// ParseRecognizerFile parses pattern definition YAML bytes.
func ParseRecognizerFile(data []byte) (*RecognizerFile, error) {
	var rf RecognizerFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing recognizer YAML: %w", err)
	}
	return &rf, nil
}

// LoadRecognizerFile reads and parses a pattern definition file from disk.
// Returns nil (not an error) if the file does not exist, so callers can
// treat a missing override file as a no-op.
func LoadRecognizerFile(path string) (*RecognizerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading recognizer file %s: %w", path, err)
	}
	return ParseRecognizerFile(data)
}

// DefaultRecognizers returns the built-in pattern recognizers parsed from
// the embedded pii_default.yaml. This is the first layer in the merge chain.
func DefaultRecognizers() ([]RecognizerConfig, error) {
	rf, err := ParseRecognizerFile(patterns.PIIDefaultYAML())
	if err != nil {
		return nil, fmt.Errorf("parsing embedded PII patterns: %w", err)
	}
	return rf.Recognizers, nil
}

// MergeRecognizers layers recognizer lists: later layers override earlier
// ones by matching on the Name field; new recognizers are appended.
func MergeRecognizers(layers ...[]RecognizerConfig) []RecognizerConfig {
	index := make(map[string]int)
	var merged []RecognizerConfig

	for _, layer := range layers {
		for _, rc := range layer {
			if idx, exists := index[rc.Name]; exists {
				merged[idx] = rc
			} else {
				index[rc.Name] = len(merged)
				merged = append(merged, rc)
			}
		}
	}

	return merged
}

// FilterByLabels applies enabled/disabled label filters to a recognizer
// list. If enabled is non-empty only recognizers with a matching
// supported_entity are kept (whitelist); then any recognizer in disabled is
// removed (blacklist).
func FilterByLabels(recognizers []RecognizerConfig, enabled, disabled []string) []RecognizerConfig {
	result := recognizers

	if len(enabled) > 0 {
		allowed := make(map[string]bool, len(enabled))
		for _, l := range enabled {
			allowed[strings.ToUpper(l)] = true
		}
		var filtered []RecognizerConfig
		for _, r := range result {
			if allowed[strings.ToUpper(r.SupportedEntity)] {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	if len(disabled) > 0 {
		blocked := make(map[string]bool, len(disabled))
		for _, l := range disabled {
			blocked[strings.ToUpper(l)] = true
		}
		var filtered []RecognizerConfig
		for _, r := range result {
			if !blocked[strings.ToUpper(r.SupportedEntity)] {
				filtered = append(filtered, r)
			}
		}
		result = filtered
	}

	return result
}

// CompileRules converts recognizer configs into the compiled []Rule slice
// used by the Detector at runtime. Disabled recognizers are skipped; each
// regex pattern in a recognizer produces one Rule with the recognizer's
// entity label uppercased.
func CompileRules(recognizers []RecognizerConfig) ([]Rule, error) {
	var rules []Rule

	for _, rec := range recognizers {
		if !rec.isEnabled() {
			continue
		}
		for _, p := range rec.Patterns {
			compiled, err := regexp.Compile(p.Regex)
			if err != nil {
				return nil, fmt.Errorf("compiling pattern %q in recognizer %q: %w", p.Name, rec.Name, err)
			}
			rules = append(rules, Rule{
				Name:    rec.Name,
				Label:   strings.ToUpper(rec.SupportedEntity),
				Pattern: compiled,
				Score:   p.Score,
			})
		}
	}

	return rules, nil
}
