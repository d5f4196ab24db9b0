package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/oneclickresume/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing auth, resume records, the step-by-step builder, previews, PDF export, portfolio pages and AI assist.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: PORT, config file, then 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		DatabaseURL:  cfg.DatabaseURL,
		RedisURL:     cfg.RedisURL,
		ChromePath:   cfg.ChromePath,
		ExportBucket: cfg.ExportBucket,
		ExportPrefix: cfg.ExportPrefix,
		Verbose:      cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
