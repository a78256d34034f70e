// Package config holds operator-level configuration for a docanon
// installation: data directory, recognizer selection, detection tuning, and
// API limits. Set via env vars (DOCANON_*) or docanon.config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the DOCANON_ prefix
// (e.g. "recognizer_url" -> DOCANON_RECOGNIZER_URL) and to a YAML field in
// docanon.config.yaml.
const (
	KeyDataDir        = "data_dir"
	KeyRecognizer     = "recognizer"
	KeyRecognizerURL  = "recognizer_url"
	KeyModel          = "model"
	KeyThreshold      = "confidence_threshold"
	KeyMaxChunkWords  = "max_chunk_words"
	KeyPatternFile    = "pattern_file"
	KeyGlobalRPM      = "global_rpm"
	KeyPerCallerRPM   = "per_caller_rpm"
)

// Defaults.
const (
	DefaultRecognizer    = "rules"
	DefaultModel         = "dslim/bert-base-NER"
	DefaultThreshold     = 0.5
	DefaultMaxChunkWords = 200
	DefaultGlobalRPM     = 600
	DefaultPerCallerRPM  = 60
)

// Config holds resolved operator-level configuration for a docanon process.
type Config struct {
	DataDir       string  // base directory for all state (~/.docanon)
	Recognizer    string  // "rules" or "http"
	RecognizerURL string  // NER model service endpoint (http recognizer only)
	Model         string  // model identifier passed to the recognizer
	Threshold     float64 // minimum recognizer confidence, within [0,1]
	MaxChunkWords int     // recognizer chunk word cap
	PatternFile   string  // optional pattern override YAML
	GlobalRPM     int     // API-wide requests per minute
	PerCallerRPM  int     // per-caller requests per minute
}

// RunsDBPath returns the full path to the runs SQLite database.
func (c *Config) RunsDBPath() string {
	return filepath.Join(c.DataDir, "runs.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

func init() {
	viper.SetEnvPrefix("DOCANON")
	viper.AutomaticEnv()
	viper.SetDefault(KeyRecognizer, DefaultRecognizer)
	viper.SetDefault(KeyModel, DefaultModel)
	viper.SetDefault(KeyThreshold, DefaultThreshold)
	viper.SetDefault(KeyMaxChunkWords, DefaultMaxChunkWords)
	viper.SetDefault(KeyGlobalRPM, DefaultGlobalRPM)
	viper.SetDefault(KeyPerCallerRPM, DefaultPerCallerRPM)
}

// Load reads configuration from Viper (which merges env vars, config file,
// and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:       resolveDataDir(),
		Recognizer:    viper.GetString(KeyRecognizer),
		RecognizerURL: viper.GetString(KeyRecognizerURL),
		Model:         viper.GetString(KeyModel),
		Threshold:     viper.GetFloat64(KeyThreshold),
		MaxChunkWords: viper.GetInt(KeyMaxChunkWords),
		PatternFile:   viper.GetString(KeyPatternFile),
		GlobalRPM:     viper.GetInt(KeyGlobalRPM),
		PerCallerRPM:  viper.GetInt(KeyPerCallerRPM),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolveDataDir() string {
	if dir := viper.GetString(KeyDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docanon"
	}
	return filepath.Join(home, ".docanon")
}

func (c *Config) validate() error {
	if c.Recognizer != "rules" && c.Recognizer != "http" {
		return fmt.Errorf("recognizer must be \"rules\" or \"http\" (got %q)", c.Recognizer)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("confidence_threshold must be within [0, 1] (got %v)", c.Threshold)
	}
	if c.MaxChunkWords <= 0 {
		return fmt.Errorf("max_chunk_words must be positive (got %d)", c.MaxChunkWords)
	}
	if c.GlobalRPM <= 0 || c.PerCallerRPM <= 0 {
		return fmt.Errorf("rate limits must be positive (got global=%d per_caller=%d)", c.GlobalRPM, c.PerCallerRPM)
	}
	return nil
}
