package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bewlybewly/bewly/backend/internal/api/native"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/logging"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/server"
	"github.com/spf13/cobra"
)

var nativeCmd = &cobra.Command{
	Use:   "native",
	Short: "Run as a browser native-messaging host on stdin/stdout",
	Long: `Run as a browser native-messaging host. The browser starts this
process and exchanges length-prefixed JSON frames over stdio. Logs go to
stderr; nothing else may write to stdout.`,
	// browsers pass the caller origin as an argument
	Args: cobra.ArbitraryArgs,
	RunE: runNative,
}

func runNative(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// host start is the connection event
	cfg.Relay.AutoConnect = false

	logger := logging.NewStderr(cfg.Logging.Level)
	defer logger.Sync()

	rl, err := server.NewRelay(cfg, logger.Logger, nil, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return native.NewHost(rl.Gateway, os.Stdout, logger.Logger).Run(ctx, os.Stdin)
}
