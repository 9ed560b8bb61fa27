package repository

import (
	"context"
	"packing_tracker/internal/models"

	"gorm.io/gorm"
)

type CartonRepository interface {
	CountByPO(ctx context.Context, poNumber string) (int64, error)
	Create(ctx context.Context, carton *models.Carton) error
	GetByPO(ctx context.Context, poNumber string) ([]models.Carton, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Carton, error)
	PackedQuantities(ctx context.Context, poNumber string, itemNumbers []string) (map[string][]string, error)
	UpdateNumber(ctx context.Context, id uint, cartonNumber int, barcode string) error
	StampPackingList(ctx context.Context, poNumber, plNumber string, cartonNumbers []int) error
	DeleteAll(ctx context.Context) (int64, error)
}

type cartonRepository struct {
	db *gorm.DB
}

func NewCartonRepository(db *gorm.DB) CartonRepository {
	return &cartonRepository{db: db}
}

func (r *cartonRepository) CountByPO(ctx context.Context, poNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Carton{}).Where("po_number = ?", poNumber).Count(&count).Error
	return count, err
}

// Create inserts the carton together with its carton items.
func (r *cartonRepository) Create(ctx context.Context, carton *models.Carton) error {
	return r.db.WithContext(ctx).Create(carton).Error
}

func (r *cartonRepository) GetByPO(ctx context.Context, poNumber string) ([]models.Carton, error) {
	var cartons []models.Carton
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("po_number = ?", poNumber).
		Order("carton_number").
		Find(&cartons).Error
	return cartons, err
}

func (r *cartonRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Carton, error) {
	var cartons []models.Carton
	if len(ids) == 0 {
		return cartons, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&cartons).Error
	return cartons, err
}

// PackedQuantities lists, per item number, the quantities already put into
// cartons of the PO.
func (r *cartonRepository) PackedQuantities(ctx context.Context, poNumber string, itemNumbers []string) (map[string][]string, error) {
	packed := make(map[string][]string)
	if len(itemNumbers) == 0 {
		return packed, nil
	}
	var rows []models.CartonItem
	err := r.db.WithContext(ctx).
		Select("carton_items.item_number", "carton_items.packed_qty").
		Joins("JOIN cartons ON cartons.id = carton_items.carton_id").
		Where("cartons.po_number = ? AND carton_items.item_number IN ?", poNumber, itemNumbers).
		Order("carton_items.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		packed[row.ItemNumber] = append(packed[row.ItemNumber], row.PackedQty)
	}
	return packed, nil
}

// UpdateNumber moves a carton to a new number. An empty barcode leaves the
// stored one unchanged.
func (r *cartonRepository) UpdateNumber(ctx context.Context, id uint, cartonNumber int, barcode string) error {
	updates := map[string]interface{}{"carton_number": cartonNumber}
	if barcode != "" {
		updates["barcode"] = barcode
	}
	return r.db.WithContext(ctx).Model(&models.Carton{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *cartonRepository) StampPackingList(ctx context.Context, poNumber, plNumber string, cartonNumbers []int) error {
	if len(cartonNumbers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Carton{}).
		Where("po_number = ? AND carton_number IN ?", poNumber, cartonNumbers).
		Update("pl_number", plNumber).Error
}

// DeleteAll removes every carton and carton item.
func (r *cartonRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.CartonItem{}).Error; err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Carton{})
	return result.RowsAffected, result.Error
}
