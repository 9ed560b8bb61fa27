package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"packing_tracker/internal/locker"
	"packing_tracker/internal/models"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/utils"

	"github.com/shopspring/decimal"
)

// maxUniqueRetries bounds how often a numbering collision is retried.
const maxUniqueRetries = 3

var now = time.Now

// PackSelection picks one item for a carton. An empty Quantity packs
// whatever of the ordered quantity is not in a carton yet.
type PackSelection struct {
	ItemNumber string `json:"item_number"`
	Quantity   string `json:"quantity,omitempty"`
}

type PackRequest struct {
	PONumber   string          `json:"po_number"`
	Items      []PackSelection `json:"items"`
	CartonType string          `json:"carton_type"`
	Weight     decimal.Decimal `json:"weight"`
}

type PackResult struct {
	CartonID     uint        `json:"carton_id"`
	CartonNumber int         `json:"carton_number"`
	Barcode      string      `json:"barcode"`
	ItemsPacked  int         `json:"items_packed"`
	PartialItems []string    `json:"partial_items,omitempty"`
	Completion   *Completion `json:"completion,omitempty"`
}

type Completion struct {
	PONumber       string `json:"po_number"`
	IsComplete     bool   `json:"is_complete"`
	TotalItems     int64  `json:"total_items"`
	PackedItems    int64  `json:"packed_items"`
	RemainingItems int64  `json:"remaining_items"`
}

type ResetResult struct {
	CartonsDeleted int64 `json:"cartons_deleted"`
	ItemsReset     int64 `json:"items_reset"`
}

type PackingService interface {
	Reset(ctx context.Context) (*ResetResult, error)
	MarkAllDone(ctx context.Context, poNumber string) (int64, error)
	PackItems(ctx context.Context, req PackRequest) (*PackResult, error)
	CheckCompletion(ctx context.Context, poNumber string) (*Completion, error)
}

type packingService struct {
	store    repository.Store
	locker   locker.Locker
	notifier NotificationService
}

func NewPackingService(store repository.Store, lk locker.Locker, notifier NotificationService) PackingService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &packingService{store: store, locker: lk, notifier: notifier}
}

// Reset clears every carton and returns all items to not_packed. Shipment
// headers and packing-list records are kept.
func (s *packingService) Reset(ctx context.Context) (*ResetResult, error) {
	result := &ResetResult{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Shipments().DeleteAllCartonLinks(ctx); err != nil {
			return fmt.Errorf("failed to delete shipment cartons: %w", err)
		}
		deleted, err := tx.Cartons().DeleteAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete cartons: %w", err)
		}
		reset, err := tx.Items().ResetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset items: %w", err)
		}
		result.CartonsDeleted = deleted
		result.ItemsReset = reset
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "reset", Err: err}
	}
	log.Printf("Packing state reset: %d cartons deleted, %d items reset", result.CartonsDeleted, result.ItemsReset)
	return result, nil
}

func (s *packingService) MarkAllDone(ctx context.Context, poNumber string) (int64, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return 0, newValidationError("po_number is required")
	}
	affected, err := s.store.Items().MarkAllDone(ctx, po)
	if err != nil {
		return 0, &PersistenceError{Op: "mark all done", Err: err}
	}
	return affected, nil
}

func (s *packingService) PackItems(ctx context.Context, req PackRequest) (*PackResult, error) {
	po := strings.TrimSpace(req.PONumber)
	numbers, err := validatePackRequest(po, req)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, locker.PurchaseOrderKey(po))
	if err != nil {
		return nil, &ConflictError{Message: "could not lock purchase order " + po, Err: err}
	}
	defer release()

	var result *PackResult
	err = withUniqueRetry(func() error {
		var packErr error
		result, packErr = s.packOnce(ctx, po, numbers, req)
		return packErr
	})
	if err != nil {
		return nil, classify("pack items", err)
	}

	log.Printf("Packed %d items of PO %s into carton %d (%s)", result.ItemsPacked, po, result.CartonNumber, result.Barcode)

	completion, err := s.CheckCompletion(ctx, po)
	if err != nil {
		log.Printf("Failed to check completion of PO %s: %v", po, err)
		return result, nil
	}
	result.Completion = completion
	if completion.IsComplete {
		s.notifier.PackingComplete(ctx, po, completion.TotalItems)
	}
	return result, nil
}

func (s *packingService) packOnce(ctx context.Context, po string, numbers []string, req PackRequest) (*PackResult, error) {
	var result *PackResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.AdvisoryLock(ctx, locker.PurchaseOrderKey(po)); err != nil {
			return fmt.Errorf("failed to take advisory lock: %w", err)
		}

		items, err := tx.Items().GetForUpdate(ctx, po, numbers)
		if err != nil {
			return fmt.Errorf("failed to load items: %w", err)
		}
		byNumber := make(map[string]models.Item, len(items))
		for _, item := range items {
			byNumber[item.ItemNumber] = item
		}
		packedSoFar, err := tx.Cartons().PackedQuantities(ctx, po, numbers)
		if err != nil {
			return fmt.Errorf("failed to load packed quantities: %w", err)
		}

		cartonItems := make([]models.CartonItem, 0, len(req.Items))
		var full, partial []string
		for _, sel := range req.Items {
			number := strings.TrimSpace(sel.ItemNumber)
			item, ok := byNumber[number]
			if !ok {
				return &NotFoundError{Resource: "item", Key: po + "/" + number}
			}
			if item.Status == string(models.ItemPacked) {
				return newValidationError("item %s is already packed in carton %s", number, cartonLabel(item.CartonNumber))
			}
			ordered, _ := decimal.NewFromString(item.Quantity)
			remaining := ordered.Sub(sumQuantities(packedSoFar[number]))
			qty, err := packedQuantity(number, sel.Quantity, remaining)
			if err != nil {
				return err
			}
			if qty.LessThan(remaining) {
				partial = append(partial, number)
			} else {
				full = append(full, number)
			}
			cartonItems = append(cartonItems, models.CartonItem{
				ItemNumber:  item.ItemNumber,
				Description: item.Description,
				Color:       item.Color,
				PackedQty:   qty.String(),
				OriginalQty: item.Quantity,
			})
		}

		count, err := tx.Cartons().CountByPO(ctx, po)
		if err != nil {
			return fmt.Errorf("failed to count cartons: %w", err)
		}
		cartonNumber := int(count) + 1
		createdAt := now()
		carton := &models.Carton{
			PONumber:     po,
			CartonNumber: cartonNumber,
			CartonType:   strings.TrimSpace(req.CartonType),
			Weight:       req.Weight,
			Barcode:      utils.CartonBarcode(po, cartonNumber, createdAt),
			CreatedAt:    createdAt,
			Items:        cartonItems,
		}
		if err := tx.Cartons().Create(ctx, carton); err != nil {
			return fmt.Errorf("failed to create carton: %w", err)
		}

		packed, err := tx.Items().AssignCarton(ctx, po, full, cartonNumber, models.ItemPacked)
		if err != nil {
			return fmt.Errorf("failed to mark items packed: %w", err)
		}
		started, err := tx.Items().AssignCarton(ctx, po, partial, cartonNumber, models.ItemDone)
		if err != nil {
			return fmt.Errorf("failed to mark items partly packed: %w", err)
		}
		if affected := packed + started; affected != int64(len(numbers)) {
			return fmt.Errorf("expected %d items to be packed, updated %d", len(numbers), affected)
		}

		result = &PackResult{
			CartonID:     carton.ID,
			CartonNumber: cartonNumber,
			Barcode:      carton.Barcode,
			ItemsPacked:  len(numbers),
			PartialItems: partial,
		}
		return nil
	})
	return result, err
}

func (s *packingService) CheckCompletion(ctx context.Context, poNumber string) (*Completion, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}
	total, packed, err := s.store.Items().CountByStatus(ctx, po)
	if err != nil {
		return nil, &PersistenceError{Op: "check completion", Err: err}
	}
	return &Completion{
		PONumber:       po,
		IsComplete:     total > 0 && packed == total,
		TotalItems:     total,
		PackedItems:    packed,
		RemainingItems: total - packed,
	}, nil
}

func validatePackRequest(po string, req PackRequest) ([]string, error) {
	if po == "" {
		return nil, newValidationError("po_number is required")
	}
	if strings.TrimSpace(req.CartonType) == "" {
		return nil, newValidationError("carton_type is required")
	}
	if !req.Weight.IsPositive() {
		return nil, newValidationError("weight must be a positive number")
	}
	if len(req.Items) == 0 {
		return nil, newValidationError("at least one item must be selected")
	}
	numbers := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, sel := range req.Items {
		number := strings.TrimSpace(sel.ItemNumber)
		if number == "" {
			return nil, newValidationError("item_number is required")
		}
		if seen[number] {
			return nil, newValidationError("item %s selected twice", number)
		}
		seen[number] = true
		numbers = append(numbers, number)
	}
	return numbers, nil
}

// packedQuantity returns the cleaned quantity going into the carton. It
// never exceeds what is left of the item outside cartons.
func packedQuantity(itemNumber, requested string, remaining decimal.Decimal) (decimal.Decimal, error) {
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if strings.TrimSpace(requested) == "" {
		return remaining, nil
	}
	qty, _ := decimal.NewFromString(utils.CleanQuantity(requested))
	if !qty.IsPositive() {
		return decimal.Zero, newValidationError("packed quantity %q must be greater than zero", requested)
	}
	if qty.GreaterThan(remaining) {
		return decimal.Zero, newValidationError("packed quantity %s of item %s exceeds remaining quantity %s", qty.String(), itemNumber, remaining.String())
	}
	return qty, nil
}

func sumQuantities(values []string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		if d, err := decimal.NewFromString(v); err == nil {
			total = total.Add(d)
		}
	}
	return total
}

func cartonLabel(n *int) string {
	if n == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *n)
}

// withUniqueRetry reruns fn while it fails on a unique index, at most
// maxUniqueRetries times in total.
func withUniqueRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxUniqueRetries; attempt++ {
		err = fn()
		if err == nil || isCallerError(err) || !repository.IsUniqueViolation(err) {
			return err
		}
		log.Printf("Numbering conflict, attempt %d/%d: %v", attempt, maxUniqueRetries, err)
	}
	return &ConflictError{Message: "numbering conflict persisted", Err: err}
}

// classify keeps caller errors as they are and wraps the rest.
func classify(op string, err error) error {
	if isCallerError(err) || IsConflict(err) {
		return err
	}
	var persistence *PersistenceError
	if errors.As(err, &persistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
