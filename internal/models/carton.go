package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Carton struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	PONumber     string          `json:"po_number" gorm:"not null;uniqueIndex:idx_cartons_po_number"`
	CartonNumber int             `json:"carton_number" gorm:"not null;uniqueIndex:idx_cartons_po_number"`
	CartonType   string          `json:"carton_type" gorm:"not null"`
	Weight       decimal.Decimal `json:"weight" gorm:"type:decimal(10,3);not null"`
	Barcode      string          `json:"barcode" gorm:"not null"`
	PLNumber     *string         `json:"pl_number" gorm:"index"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []CartonItem    `json:"items,omitempty" gorm:"foreignKey:CartonID;constraint:OnDelete:CASCADE"`
}

// CartonItem records how much of one item went into one carton.
type CartonItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CartonID    uint      `json:"carton_id" gorm:"not null;index"`
	ItemNumber  string    `json:"item_number" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Color       string    `json:"color"`
	PackedQty   string    `json:"packed_qty" gorm:"not null"`
	OriginalQty string    `json:"original_qty" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}
