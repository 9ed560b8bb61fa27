package repository

import (
	"context"
	"packing_tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepository interface {
	Upsert(ctx context.Context, items []models.Item) error
	GetByPO(ctx context.Context, poNumber string) ([]models.Item, error)
	GetForUpdate(ctx context.Context, poNumber string, itemNumbers []string) ([]models.Item, error)
	CountByStatus(ctx context.Context, poNumber string) (total int64, packed int64, err error)
	MarkAllDone(ctx context.Context, poNumber string) (int64, error)
	AssignCarton(ctx context.Context, poNumber string, itemNumbers []string, cartonNumber int, status models.ItemStatus) (int64, error)
	MoveCarton(ctx context.Context, poNumber string, from, to int) error
	StampPackingList(ctx context.Context, poNumber, plNumber string) (int64, error)
	ResetAll(ctx context.Context) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Upsert inserts new lines and refreshes scraped fields of existing ones.
// Packing state of existing lines is left as is.
func (r *itemRepository) Upsert(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "po_number"}, {Name: "item_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "color", "quantity", "updated_at"}),
	}).Create(&items).Error
}

func (r *itemRepository) GetByPO(ctx context.Context, poNumber string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).Where("po_number = ?", poNumber).Order("item_number").Find(&items).Error
	return items, err
}

func (r *itemRepository) GetForUpdate(ctx context.Context, poNumber string, itemNumbers []string) ([]models.Item, error) {
	var items []models.Item
	err := forUpdate(r.db.WithContext(ctx)).
		Where("po_number = ? AND item_number IN ?", poNumber, itemNumbers).
		Order("id").
		Find(&items).Error
	return items, err
}

func (r *itemRepository) CountByStatus(ctx context.Context, poNumber string) (int64, int64, error) {
	var total, packed int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("po_number = ?", poNumber).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("po_number = ? AND status = ?", poNumber, string(models.ItemPacked)).Count(&packed).Error; err != nil {
		return 0, 0, err
	}
	return total, packed, nil
}

func (r *itemRepository) MarkAllDone(ctx context.Context, poNumber string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("po_number = ? AND status = ?", poNumber, string(models.ItemNotPacked)).
		Update("status", string(models.ItemDone))
	return result.RowsAffected, result.Error
}

// AssignCarton points items at the carton they were last packed into. Items
// already packed in full are never touched again.
func (r *itemRepository) AssignCarton(ctx context.Context, poNumber string, itemNumbers []string, cartonNumber int, status models.ItemStatus) (int64, error) {
	if len(itemNumbers) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("po_number = ? AND item_number IN ? AND status <> ?", poNumber, itemNumbers, string(models.ItemPacked)).
		Updates(map[string]interface{}{
			"status":        string(status),
			"carton_number": cartonNumber,
		})
	return result.RowsAffected, result.Error
}

func (r *itemRepository) MoveCarton(ctx context.Context, poNumber string, from, to int) error {
	return r.db.WithContext(ctx).Model(&models.Item{}).
		Where("po_number = ? AND carton_number = ?", poNumber, from).
		Update("carton_number", to).Error
}

// StampPackingList marks every item sitting in a carton, including items
// that are only partly packed.
func (r *itemRepository) StampPackingList(ctx context.Context, poNumber, plNumber string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("po_number = ? AND carton_number IS NOT NULL", poNumber).
		Update("pl_number", plNumber)
	return result.RowsAffected, result.Error
}

func (r *itemRepository) ResetAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"status":        string(models.ItemNotPacked),
			"carton_number": nil,
			"pl_number":     nil,
		})
	return result.RowsAffected, result.Error
}
