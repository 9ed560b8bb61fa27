package models

import (
	"time"
)

// Item is one PO line. ItemNumber is only unique within its PO.
type Item struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	PONumber     string    `json:"po_number" gorm:"not null;uniqueIndex:idx_items_po_item"`
	ItemNumber   string    `json:"item_number" gorm:"not null;uniqueIndex:idx_items_po_item"`
	Description  string    `json:"description" gorm:"type:text"`
	Color        string    `json:"color"`
	Quantity     string    `json:"quantity" gorm:"not null;default:'0'"` // cleaned decimal string
	Status       string    `json:"status" gorm:"not null;default:'not_packed';index"`
	CartonNumber *int      `json:"carton_number"`
	PLNumber     *string   `json:"pl_number" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItemStatus is the packing state of an item.
type ItemStatus string

const (
	ItemNotPacked ItemStatus = "not_packed"
	ItemDone      ItemStatus = "done"
	ItemPacked    ItemStatus = "packed"
)
