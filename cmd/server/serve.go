package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bewlybewly/bewly/backend/internal/infrastructure/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay's HTTP, WebSocket and NATS surfaces",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "Server port (overrides PORT)")
	serveCmd.Flags().String("host", "", "Server host (overrides HOST)")
	serveCmd.Flags().Bool("dev", false, "Development mode (colored logs, debug level)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if dev, _ := cmd.Flags().GetBool("dev"); dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	pterm.Info.Printf("Relay listening on http://%s\n", cfg.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
