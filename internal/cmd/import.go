package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"packing_tracker/internal/services"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import purchase orders exported by the portal scraper",
	Long: `Import purchase orders from a JSON file. The file holds either one
purchase order object or an array of them:

  {"po_number": "1280290", "buyer": "...", "items": [
    {"item_number": "I1", "description": "...", "color": "Red", "quantity": "1,057"}
  ]}`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	orders, err := readImportFile(args[0])
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, order := range orders {
		result, err := a.Items.Import(cmd.Context(), order)
		if err != nil {
			return fmt.Errorf("failed to import PO %s: %w", order.PONumber, err)
		}
		fmt.Printf("📦 PO %s: %d items imported\n", result.PONumber, result.ItemsImported)
	}
	return nil
}

// readImportFile accepts a single PO object or an array of them.
func readImportFile(path string) ([]services.ImportRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var many []services.ImportRequest
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one services.ImportRequest
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []services.ImportRequest{one}, nil
}
