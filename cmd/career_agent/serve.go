package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-advisor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start an HTTP server exposing the advisor over POST /chat, with per-conversation sessions keyed by conversation_id.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.New(server.Config{Port: servePort}, a.newLoop, a.logger)
	return srv.Start()
}
