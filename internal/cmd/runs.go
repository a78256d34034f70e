package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/config"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored anonymization run records",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "runs.list")
		defer span.End()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		st, err := store.NewStore(cfg.RunsDBPath())
		if err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer st.Close()

		records, err := st.List(ctx, runsLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %s  entities=%-4d  %s\n",
				rec.ID, rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.TotalEntities, rec.Recognizer)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, span := tracer.Start(cmd.Context(), "runs.show")
		defer span.End()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		st, err := store.NewStore(cfg.RunsDBPath())
		if err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer st.Close()

		rec, err := st.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching run %s: %w", args[0], err)
		}
		blob, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		fmt.Println(string(blob))
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
