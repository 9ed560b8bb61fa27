package repository

import (
	"context"
	"packing_tracker/internal/models"

	"gorm.io/gorm"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *models.Shipment) error
	GetByPO(ctx context.Context, poNumber string) ([]models.Shipment, error)
	ShippedCartonIDs(ctx context.Context, cartonIDs []uint) ([]uint, error)
	DeleteAllCartonLinks(ctx context.Context) error
}

type shipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

// Create inserts the shipment header and its carton links.
func (r *shipmentRepository) Create(ctx context.Context, shipment *models.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *shipmentRepository) GetByPO(ctx context.Context, poNumber string) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.WithContext(ctx).
		Preload("Cartons").
		Where("po_number = ?", poNumber).
		Order("id").
		Find(&shipments).Error
	return shipments, err
}

// ShippedCartonIDs returns which of the given cartons already belong to a
// shipment.
func (r *shipmentRepository) ShippedCartonIDs(ctx context.Context, cartonIDs []uint) ([]uint, error) {
	var ids []uint
	if len(cartonIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&models.ShipmentCarton{}).
		Distinct().
		Where("carton_id IN ?", cartonIDs).
		Order("carton_id").
		Pluck("carton_id", &ids).Error
	return ids, err
}

func (r *shipmentRepository) DeleteAllCartonLinks(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.ShipmentCarton{}).Error
}
