package services

import (
	"context"
	"fmt"
	"strings"

	"packing_tracker/internal/models"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/utils"
)

// ImportRequest is one PO as delivered by the portal scraper.
type ImportRequest struct {
	PONumber string       `json:"po_number"`
	Buyer    string       `json:"buyer"`
	Supplier string       `json:"supplier"`
	ShipDate string       `json:"ship_date"`
	Notes    string       `json:"notes"`
	Items    []ImportItem `json:"items"`
}

type ImportItem struct {
	ItemNumber  string `json:"item_number"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Quantity    string `json:"quantity"`
}

type ImportResult struct {
	PONumber      string `json:"po_number"`
	ItemsImported int    `json:"items_imported"`
}

type ItemService interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
	LoadItems(ctx context.Context, poNumber string) ([]models.Item, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrderSummary, error)
}

type itemService struct {
	store repository.Store
}

func NewItemService(store repository.Store) ItemService {
	return &itemService{store: store}
}

func (s *itemService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	po := strings.TrimSpace(req.PONumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}
	if len(req.Items) == 0 {
		return nil, newValidationError("items are required")
	}

	seen := make(map[string]bool, len(req.Items))
	items := make([]models.Item, 0, len(req.Items))
	for i, in := range req.Items {
		number := strings.TrimSpace(in.ItemNumber)
		if number == "" {
			return nil, newValidationError("items[%d].item_number is required", i)
		}
		if seen[number] {
			return nil, newValidationError("item %s listed twice", number)
		}
		seen[number] = true
		items = append(items, models.Item{
			PONumber:    po,
			ItemNumber:  number,
			Description: strings.TrimSpace(in.Description),
			Color:       strings.TrimSpace(in.Color),
			Quantity:    utils.CleanQuantity(in.Quantity),
			Status:      string(models.ItemNotPacked),
		})
	}

	header := &models.PurchaseOrder{
		PONumber: po,
		Buyer:    strings.TrimSpace(req.Buyer),
		Supplier: strings.TrimSpace(req.Supplier),
		ShipDate: strings.TrimSpace(req.ShipDate),
		Notes:    req.Notes,
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.PurchaseOrders().Upsert(ctx, header); err != nil {
			return fmt.Errorf("failed to save purchase order: %w", err)
		}
		if err := tx.Items().Upsert(ctx, items); err != nil {
			return fmt.Errorf("failed to save items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "import " + po, Err: err}
	}

	return &ImportResult{PONumber: po, ItemsImported: len(items)}, nil
}

func (s *itemService) LoadItems(ctx context.Context, poNumber string) ([]models.Item, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}
	items, err := s.store.Items().GetByPO(ctx, po)
	if err != nil {
		return nil, &PersistenceError{Op: "load items", Err: err}
	}
	if len(items) == 0 {
		return nil, &NotFoundError{Resource: "purchase order", Key: po}
	}
	return items, nil
}

func (s *itemService) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrderSummary, error) {
	summaries, err := s.store.PurchaseOrders().ListSummaries(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list purchase orders", Err: err}
	}
	return summaries, nil
}
