package main

import (
	"context"
	"os"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rates",
	Short:         "PrivatBank archive exchange-rate reporter",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute(ctx context.Context) error {
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd.ExecuteContext(ctx)
}

func newLogger() log.Logger {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
