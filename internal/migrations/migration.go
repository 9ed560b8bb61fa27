package migrations

import (
	"log"
	"packing_tracker/internal/models"

	"gorm.io/gorm"
)

func packingModels() []interface{} {
	return []interface{}{
		&models.PurchaseOrder{},
		&models.Item{},
		&models.Carton{},
		&models.CartonItem{},
		&models.Shipment{},
		&models.ShipmentCarton{},
		&models.PackingList{},
		&models.PackingListLine{},
	}
}

// RunMigrations creates or updates every packing table.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(packingModels()...); err != nil {
		return err
	}
	log.Println("Database migrations completed successfully!")
	return nil
}

// Rebuild drops and recreates every table. This is the whole-database reset:
// items, packing state, shipments and packing-list history are all lost.
func Rebuild(db *gorm.DB) error {
	log.Println("Dropping existing tables...")

	tables := packingModels()
	dropOrder := make([]interface{}, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		dropOrder = append(dropOrder, tables[i])
	}
	if err := db.Migrator().DropTable(dropOrder...); err != nil {
		log.Printf("Warning: Error dropping tables: %v", err)
	}

	log.Println("Creating tables...")
	return RunMigrations(db)
}
