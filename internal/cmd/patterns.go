package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/detect"
)

var patternsFile string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Inspect and validate pattern recognizer definitions",
}

var patternsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pattern override YAML file",
	Long:  "Parses the file, merges it onto the embedded defaults, and compiles every regex.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, span := tracer.Start(cmd.Context(), "patterns.validate")
		defer span.End()

		defaults, err := detect.DefaultRecognizers()
		if err != nil {
			return fmt.Errorf("loading embedded defaults: %w", err)
		}

		merged := defaults
		if patternsFile != "" {
			rf, err := detect.LoadRecognizerFile(patternsFile)
			if err != nil {
				log.Error().Err(err).Str("file", patternsFile).Msg("Pattern validation failed")
				fmt.Fprintf(os.Stderr, "✗ Validation failed: %s\n", patternsFile)
				return fmt.Errorf("validation failed: %w", err)
			}
			if rf == nil {
				return fmt.Errorf("pattern file %s does not exist", patternsFile)
			}
			merged = detect.MergeRecognizers(defaults, rf.Recognizers)
		}

		rules, err := detect.CompileRules(merged)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ Pattern compilation failed\n")
			return fmt.Errorf("compiling patterns: %w", err)
		}

		fmt.Printf("✓ Patterns valid\n")
		fmt.Printf("  Recognizers: %d\n", len(merged))
		fmt.Printf("  Compiled rules: %d\n", len(rules))
		return nil
	},
}

func init() {
	patternsValidateCmd.Flags().StringVarP(&patternsFile, "file", "f", "", "pattern override YAML to validate (default: embedded defaults only)")
	patternsCmd.AddCommand(patternsValidateCmd)
	rootCmd.AddCommand(patternsCmd)
}
