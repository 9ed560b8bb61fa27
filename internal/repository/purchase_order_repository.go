package repository

import (
	"context"
	"packing_tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseOrderRepository interface {
	Upsert(ctx context.Context, po *models.PurchaseOrder) error
	GetByNumber(ctx context.Context, poNumber string) (*models.PurchaseOrder, error)
	ListSummaries(ctx context.Context) ([]models.PurchaseOrderSummary, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Upsert(ctx context.Context, po *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "po_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"buyer", "supplier", "ship_date", "notes", "updated_at"}),
	}).Create(po).Error
}

func (r *purchaseOrderRepository) GetByNumber(ctx context.Context, poNumber string) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).Where("po_number = ?", poNumber).First(&po).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *purchaseOrderRepository) ListSummaries(ctx context.Context) ([]models.PurchaseOrderSummary, error) {
	var summaries []models.PurchaseOrderSummary
	err := r.db.WithContext(ctx).
		Table("purchase_orders AS p").
		Select(`p.id, p.po_number, p.buyer, p.supplier, p.ship_date, p.notes, p.created_at, p.updated_at,
			COUNT(i.id) AS total_items,
			COALESCE(SUM(CASE WHEN i.status = ? THEN 1 ELSE 0 END), 0) AS packed_items`, string(models.ItemPacked)).
		Joins("LEFT JOIN items i ON i.po_number = p.po_number").
		Group("p.id, p.po_number, p.buyer, p.supplier, p.ship_date, p.notes, p.created_at, p.updated_at").
		Order("p.po_number").
		Scan(&summaries).Error
	return summaries, err
}
