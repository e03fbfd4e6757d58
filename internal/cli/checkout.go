package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/certdash/internal/checkout"
	"github.com/dtroode/certdash/internal/config"
	"github.com/dtroode/certdash/internal/logger"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <price-id>",
	Short: "Start a subscription checkout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		client := checkout.NewClient(checkout.Config{
			URL:        cfg.Checkout.URL,
			SuccessURL: cfg.Checkout.SuccessURL,
			CancelURL:  cfg.Checkout.CancelURL,
			Timeout:    cfg.RequestTimeout,
		}, logger.New(cfg.LogLevel))

		sessionID, err := client.CreateCheckoutSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Checkout session: %s\n", sessionID)
		return nil
	},
}
