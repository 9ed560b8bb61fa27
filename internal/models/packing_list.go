package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackingList is the header of a generated packing list. PLNumber is unique
// across all POs.
type PackingList struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	PLNumber      string            `json:"pl_number" gorm:"uniqueIndex;not null"`
	PONumber      string            `json:"po_number" gorm:"not null;index"`
	TotalCartons  int               `json:"total_cartons"`
	TotalItems    int               `json:"total_items"`
	TotalQuantity int64             `json:"total_quantity"`
	CreatedAt     time.Time         `json:"created_at"`
	Lines         []PackingListLine `json:"lines,omitempty" gorm:"foreignKey:PackingListID;constraint:OnDelete:CASCADE"`
}

// PackingListLine is a frozen copy of one printed row, so a list can be
// fetched again exactly as it was rendered.
type PackingListLine struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	PackingListID uint            `json:"packing_list_id" gorm:"not null;index"`
	CartonNumber  int             `json:"carton_number"`
	CartonType    string          `json:"carton_type"`
	CartonWeight  decimal.Decimal `json:"carton_weight" gorm:"type:decimal(10,3)"`
	ItemNumber    string          `json:"item_number"`
	Description   string          `json:"description" gorm:"type:text"`
	Color         string          `json:"color"`
	Quantity      string          `json:"quantity"`
}
