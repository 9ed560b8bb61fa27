package cmd

import (
	"fmt"

	"packing_tracker/internal/migrations"

	"github.com/spf13/cobra"
)

var migrateFresh bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema.

With --fresh every packing table is dropped and recreated first. This wipes
purchase orders, shipments and packing lists too.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateFresh, "fresh", false, "Drop all tables before migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if migrateFresh {
		if err := migrations.Rebuild(a.DB); err != nil {
			return fmt.Errorf("failed to rebuild schema: %w", err)
		}
		fmt.Println("✅ Schema rebuilt from scratch")
		return nil
	}
	// Initialize already ran the migrations.
	fmt.Println("✅ Schema is up to date")
	return nil
}
