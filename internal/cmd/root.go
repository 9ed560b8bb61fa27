package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"packing_tracker/internal/app"
	"packing_tracker/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "packing-tracker",
	Short: "PO carton packing and shipment tracker",
	Long: `packing-tracker records how purchase-order items are packed into
cartons, groups cartons into shipments and prints packing lists.

Run "serve" for the HTTP API, or use the other commands for one-off
maintenance from the warehouse terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp() (*app.App, error) {
	cfg := config.Load()
	a, err := app.Initialize(cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}
