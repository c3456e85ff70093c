package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"service-rates/internal/clients/privatbank"
	"service-rates/internal/metrics"
	"service-rates/internal/models"
	ratessvc "service-rates/internal/service/rates"
)

func fetchCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "fetch [currencies...]",
		Short: "Fetch the last N days of exchange rates and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger := newLogger()

			client := privatbank.New()
			if cfg.BaseURL != "" {
				client.BaseURL = cfg.BaseURL
			}

			svc := ratessvc.NewLoggingService(logger, ratessvc.New(client, logger, metrics.NewMetrics()))

			codes := args
			if len(codes) == 0 {
				codes = cfg.DefaultCurrencies
			}

			report, err := svc.GetRates(cmd.Context(), days, models.NewCurrencySet(codes))
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 1, "how many past days to fetch, today first (1-10)")

	return cmd
}
