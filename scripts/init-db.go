package main

import (
	"context"
	"fmt"
	"log"

	"packing_tracker/internal/config"
	"packing_tracker/internal/database"
	"packing_tracker/internal/migrations"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/services"
)

// Rebuilds the schema and loads a demo purchase order.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.LogSQL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Recreating tables...")
	if err := migrations.Rebuild(db); err != nil {
		log.Fatal("Failed to rebuild schema:", err)
	}

	fmt.Println("Seeding demo purchase order...")
	itemService := services.NewItemService(repository.NewStore(db))
	result, err := itemService.Import(context.Background(), services.ImportRequest{
		PONumber: "1280290",
		Buyer:    "Demo Buyer",
		Supplier: "Demo Garments",
		ShipDate: "2026-11-30",
		Items: []services.ImportItem{
			{ItemNumber: "1280290-01", Description: "Crew neck tee", Color: "Red", Quantity: "10 PCS"},
			{ItemNumber: "1280290-02", Description: "Crew neck tee", Color: "Navy", Quantity: "20 PCS"},
			{ItemNumber: "1280290-03", Description: "Baseball cap", Color: "Black", Quantity: "30 PCS"},
		},
	})
	if err != nil {
		log.Fatal("Failed to seed demo data:", err)
	}

	fmt.Printf("✅ Database initialized, PO %s with %d items\n", result.PONumber, result.ItemsImported)
}
