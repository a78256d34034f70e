package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/anonymize"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/config"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/recognize"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/store"
)

var (
	runInput      string
	runOutput     string
	runThreshold  float64
	runChunkWords int
	runNoSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Anonymize a text document",
	Long: `Reads a UTF-8 text file, replaces detected PII with placeholders, and
writes the result bundle (anonymized text, statistics, entity mapping) as
JSON. Use --output - to write to stdout.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "path to input text file (required)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "path to output JSON file, or - for stdout (required)")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", -1, "recognizer confidence threshold (default from config)")
	runCmd.Flags().IntVar(&runChunkWords, "max-chunk-words", 0, "recognizer chunk word cap (default from config)")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "skip persisting the run record")
	_ = runCmd.MarkFlagRequired("input")
	_ = runCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(runCmd)
}

// buildRecognizer constructs the configured recognizer backend. Shared with
// serve.
func buildRecognizer(cfg *config.Config) recognize.Recognizer {
	if cfg.Recognizer == "http" {
		return recognize.NewHTTPRecognizer(cfg.RecognizerURL, cfg.Model)
	}
	return recognize.NewRuleRecognizer()
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "run")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if runThreshold >= 0 {
		cfg.Threshold = runThreshold
	}
	if runChunkWords > 0 {
		cfg.MaxChunkWords = runChunkWords
	}

	raw, err := os.ReadFile(runInput)
	if err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	recognizer := buildRecognizer(cfg)
	session, err := anonymize.New(
		anonymize.WithRecognizer(recognizer),
		anonymize.WithThreshold(cfg.Threshold),
		anonymize.WithMaxChunkWords(cfg.MaxChunkWords),
		anonymize.WithPatternFile(cfg.PatternFile),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	result, err := session.Anonymize(ctx, string(raw))
	if err != nil {
		return fmt.Errorf("anonymizing %s: %w", runInput, err)
	}

	blob, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if runOutput == "-" {
		fmt.Println(string(blob))
	} else if err := os.WriteFile(runOutput, blob, 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if !runNoSave {
		if err := saveRunRecord(cmd, cfg, string(raw), recognizer.Name(), result); err != nil {
			// The result is already written; an audit gap is a warning.
			log.Warn().Err(err).Msg("persisting run record failed")
		}
	}

	log.Info().
		Str("input", runInput).
		Str("recognizer", recognizer.Name()).
		Int("total_entities", result.Statistics.TotalEntities).
		Msg("Anonymization complete")

	if runOutput != "-" {
		fmt.Printf("✓ Anonymization complete: %s\n", runOutput)
		fmt.Printf("  Entities found: %d\n", result.Statistics.TotalEntities)
	}
	return nil
}

func saveRunRecord(cmd *cobra.Command, cfg *config.Config, input, recognizerName string, result *anonymize.Result) error {
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	st, err := store.NewStore(cfg.RunsDBPath())
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Save(cmd.Context(), store.NewRecord(input, recognizerName, cfg.Model, result))
}
