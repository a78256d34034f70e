package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/config"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/detect"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/server"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docanon HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP server port")
	rootCmd.AddCommand(serveCmd)
}

// parseAPIKeys returns a map of key -> caller_id from DOCANON_API_KEYS
// (comma-separated; each entry key or key:caller_id).
func parseAPIKeys(env string) map[string]string {
	m := make(map[string]string)
	if env == "" {
		return m
	}
	for _, part := range strings.Split(env, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		callerID := "default"
		if idx := strings.Index(part, ":"); idx > 0 {
			callerID = strings.TrimSpace(part[idx+1:])
			part = strings.TrimSpace(part[:idx])
		}
		m[part] = callerID
	}
	return m
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	detector, err := detect.NewDetector(detect.WithPatternFile(cfg.PatternFile))
	if err != nil {
		return fmt.Errorf("building pattern detector: %w", err)
	}
	recognizer := buildRecognizer(cfg)

	runStore, err := store.NewStore(cfg.RunsDBPath())
	if err != nil {
		return fmt.Errorf("opening run store: %w", err)
	}
	defer runStore.Close()

	apiKeys := parseAPIKeys(os.Getenv("DOCANON_API_KEYS"))
	if len(apiKeys) == 0 {
		log.Warn().Msg("DOCANON_API_KEYS not set — API authentication disabled")
	}

	srv := server.NewServer(recognizer, detector, cfg.Threshold, cfg.MaxChunkWords,
		server.WithStore(runStore),
		server.WithAPIKeys(apiKeys),
		server.WithRateLimiter(server.NewRateLimiter(cfg.GlobalRPM, cfg.PerCallerRPM)),
		server.WithModel(cfg.Model),
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", servePort),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", servePort).
			Str("recognizer", recognizer.Name()).
			Msg("docanon API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
