package models

import (
	"time"
)

// PurchaseOrder is the header row of a PO as scraped from the buyer portal.
type PurchaseOrder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PONumber  string    `json:"po_number" gorm:"uniqueIndex;not null"`
	Buyer     string    `json:"buyer"`
	Supplier  string    `json:"supplier"`
	ShipDate  string    `json:"ship_date"` // YYYY-MM-DD as printed on the PO
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseOrderSummary is a header plus its packing progress.
type PurchaseOrderSummary struct {
	PurchaseOrder
	TotalItems  int64 `json:"total_items"`
	PackedItems int64 `json:"packed_items"`
}
