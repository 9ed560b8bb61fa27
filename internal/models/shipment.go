package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shipment totals are snapshots taken at creation time.
type Shipment struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	Reference    string           `json:"reference" gorm:"uniqueIndex;not null"`
	PONumber     string           `json:"po_number" gorm:"not null;index"`
	Courier      string           `json:"courier" gorm:"not null"`
	AWBNumber    string           `json:"awb_number" gorm:"not null"`
	ShipmentDate string           `json:"shipment_date" gorm:"not null"` // YYYY-MM-DD
	TotalCartons int              `json:"total_cartons"`
	TotalWeight  decimal.Decimal  `json:"total_weight" gorm:"type:decimal(12,3)"`
	CreatedAt    time.Time        `json:"created_at"`
	Cartons      []ShipmentCarton `json:"cartons,omitempty" gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

type ShipmentCarton struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ShipmentID uint `json:"shipment_id" gorm:"not null;index"`
	CartonID   uint `json:"carton_id" gorm:"not null;index"`
}
