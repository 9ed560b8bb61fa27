package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var packingListPDF string

var packingListCmd = &cobra.Command{
	Use:   "packing-list <po>",
	Short: "Generate the next packing list for a PO",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackingList,
}

func init() {
	rootCmd.AddCommand(packingListCmd)
	packingListCmd.Flags().StringVar(&packingListPDF, "pdf", "", "Also write the packing list as PDF to this file")
}

func runPackingList(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.PackingLists.Render(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	pl := result.PackingList
	fmt.Printf("🧾 %s for PO %s: %d cartons, %d items, total qty %d\n",
		pl.PLNumber, pl.PONumber, pl.TotalCartons, pl.TotalItems, pl.TotalQuantity)
	for _, r := range result.Renumbered {
		fmt.Printf("   carton %d renumbered to %d\n", r.From, r.To)
	}

	if packingListPDF == "" {
		return nil
	}
	pdf, err := a.PackingLists.PDF(cmd.Context(), pl.PLNumber)
	if err != nil {
		return err
	}
	if err := os.WriteFile(packingListPDF, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", packingListPDF, err)
	}
	fmt.Printf("📄 PDF written to %s\n", packingListPDF)
	return nil
}
