package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/server"
	"github.com/jonathan/resume-scorer/internal/server/ratelimit"
)

var (
	servePort      int
	serveRateLimit bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scoring API",
	Long: `Start an HTTP server exposing POST /score/pdf (multipart field "file"),
POST /score/pdf/stream (progress as Server-Sent Events) and GET /health.
When a database is configured, scores are stored and listed under /evaluations.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().BoolVar(&serveRateLimit, "rate-limit", true, "Limit requests per client")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.pipeline(ctx)
	if err != nil {
		return err
	}

	var store server.Store
	database, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if database != nil {
		store = database
	}

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	limits := ratelimit.DefaultConfig()
	limits.Enabled = serveRateLimit

	srv := server.New(server.Config{
		Port:           port,
		MaxUploadBytes: a.cfg.Server.MaxUploadBytes,
		RateLimit:      limits,
	}, p, store, a.log)
	return srv.Start(ctx)
}
