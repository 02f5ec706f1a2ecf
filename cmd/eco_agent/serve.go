package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/sustainability-evaluator/internal/logger"
	"github.com/jonathan/sustainability-evaluator/internal/server"
	"github.com/jonathan/sustainability-evaluator/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the evaluation, analysis and recommendation endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	if a.cfg.APIKey == "" {
		a.log.Warn("no LLM API key configured; model-backed endpoints will fail")
	}

	srv := server.New(server.Config{
		Port: port,
		RateLimit: ratelimit.Config{
			Enabled:         !a.cfg.DisableRateLimit,
			RPS:             a.cfg.RateLimitRPS,
			Burst:           a.cfg.RateLimitBurst,
			CleanupInterval: ratelimit.DefaultCleanupInterval,
		},
		Log:     a.log,
		Metrics: a.metrics,
	}, a.evaluator, a.analyzer, a.advisor)

	a.log.Info("starting server",
		logger.Int("port", port),
		logger.String("provider", a.cfg.Provider),
		logger.String("fetch_strategy", a.cfg.FetchStrategy),
	)
	if err := srv.Start(cmd.Context()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
