package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all cartons and return every item to not_packed",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Packing.Reset(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("🧹 Deleted %d cartons, reset %d items\n", result.CartonsDeleted, result.ItemsReset)
	return nil
}
