package repository

import (
	"context"
	"packing_tracker/internal/models"

	"gorm.io/gorm"
)

type PackingListRepository interface {
	LatestNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, pl *models.PackingList) error
	GetByNumber(ctx context.Context, plNumber string) (*models.PackingList, error)
	GetByPO(ctx context.Context, poNumber string) ([]models.PackingList, error)
}

type packingListRepository struct {
	db *gorm.DB
}

func NewPackingListRepository(db *gorm.DB) PackingListRepository {
	return &packingListRepository{db: db}
}

// LatestNumber returns the highest PL number in the system, or "" when none
// exist. Numbers outgrow the zero padding after PL9999999, so longer ones
// sort first.
func (r *packingListRepository) LatestNumber(ctx context.Context) (string, error) {
	var lists []models.PackingList
	err := r.db.WithContext(ctx).
		Order("LENGTH(pl_number) DESC").
		Order("pl_number DESC").
		Limit(1).
		Find(&lists).Error
	if err != nil {
		return "", err
	}
	if len(lists) == 0 {
		return "", nil
	}
	return lists[0].PLNumber, nil
}

func (r *packingListRepository) Create(ctx context.Context, pl *models.PackingList) error {
	return r.db.WithContext(ctx).Create(pl).Error
}

func (r *packingListRepository) GetByNumber(ctx context.Context, plNumber string) (*models.PackingList, error) {
	var pl models.PackingList
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("carton_number").Order("id") }).
		Where("pl_number = ?", plNumber).
		First(&pl).Error
	if err != nil {
		return nil, err
	}
	return &pl, nil
}

func (r *packingListRepository) GetByPO(ctx context.Context, poNumber string) ([]models.PackingList, error) {
	var lists []models.PackingList
	err := r.db.WithContext(ctx).Where("po_number = ?", poNumber).Order("pl_number").Find(&lists).Error
	return lists, err
}
