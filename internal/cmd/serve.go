package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	log.Printf("Server starting on port %s", a.Config.ServerPort)
	if err := a.Router().Run(":" + a.Config.ServerPort); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
