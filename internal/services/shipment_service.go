package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"packing_tracker/internal/locker"
	"packing_tracker/internal/models"
	"packing_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShipmentRequest struct {
	PONumber  string `json:"po_number"`
	Courier   string `json:"courier"`
	AWBNumber string `json:"awb_number"`
	CartonIDs []uint `json:"carton_ids"`
}

type ShipmentResult struct {
	ShipmentID       uint            `json:"shipment_id"`
	Reference        string          `json:"reference"`
	ShipmentDate     string          `json:"shipment_date"`
	TotalCartons     int             `json:"total_cartons"`
	TotalWeight      decimal.Decimal `json:"total_weight"`
	MissingCartonIDs []uint          `json:"missing_carton_ids,omitempty"`
	// Cartons that were already part of an earlier shipment. They are still
	// linked and weighed.
	ReshippedCartonIDs []uint `json:"reshipped_carton_ids,omitempty"`
}

type ShipmentService interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) (*ShipmentResult, error)
	ListShipments(ctx context.Context, poNumber string) ([]models.Shipment, error)
}

type shipmentService struct {
	store    repository.Store
	locker   locker.Locker
	notifier NotificationService
}

func NewShipmentService(store repository.Store, lk locker.Locker, notifier NotificationService) ShipmentService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &shipmentService{store: store, locker: lk, notifier: notifier}
}

func (s *shipmentService) CreateShipment(ctx context.Context, req ShipmentRequest) (*ShipmentResult, error) {
	po := strings.TrimSpace(req.PONumber)
	courier := strings.TrimSpace(req.Courier)
	awb := strings.TrimSpace(req.AWBNumber)
	switch {
	case po == "":
		return nil, newValidationError("po_number is required")
	case courier == "":
		return nil, newValidationError("courier is required")
	case awb == "":
		return nil, newValidationError("awb_number is required")
	case len(req.CartonIDs) == 0:
		return nil, newValidationError("carton_ids are required")
	}
	seen := make(map[uint]bool, len(req.CartonIDs))
	for _, id := range req.CartonIDs {
		if seen[id] {
			return nil, newValidationError("carton %d listed twice", id)
		}
		seen[id] = true
	}

	release, err := s.locker.Lock(ctx, locker.PurchaseOrderKey(po))
	if err != nil {
		return nil, &ConflictError{Message: "could not lock purchase order " + po, Err: err}
	}
	defer release()

	result := &ShipmentResult{
		Reference:    uuid.NewString(),
		ShipmentDate: now().Format("2006-01-02"),
		TotalCartons: len(req.CartonIDs),
		TotalWeight:  decimal.Zero,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.AdvisoryLock(ctx, locker.PurchaseOrderKey(po)); err != nil {
			return fmt.Errorf("failed to take advisory lock: %w", err)
		}

		weights, lookupErr := cartonWeights(ctx, tx, req.CartonIDs)
		if lookupErr != nil && weights == nil {
			return lookupErr
		}
		found := make(map[uint]bool, len(weights))
		links := make([]models.ShipmentCarton, 0, len(weights))
		for _, w := range weights {
			if w.PONumber != po {
				log.Printf("Carton %d belongs to PO %s, not %s; skipped", w.CartonID, w.PONumber, po)
				continue
			}
			found[w.CartonID] = true
			result.TotalWeight = result.TotalWeight.Add(w.Weight)
			links = append(links, models.ShipmentCarton{CartonID: w.CartonID})
		}
		result.MissingCartonIDs = nil
		for _, id := range req.CartonIDs {
			if !found[id] {
				result.MissingCartonIDs = append(result.MissingCartonIDs, id)
			}
		}
		if len(result.MissingCartonIDs) > 0 {
			log.Printf("Shipment for PO %s skips unknown cartons %v", po, result.MissingCartonIDs)
		}

		linked := make([]uint, 0, len(links))
		for _, l := range links {
			linked = append(linked, l.CartonID)
		}
		reshipped, err := tx.Shipments().ShippedCartonIDs(ctx, linked)
		if err != nil {
			return fmt.Errorf("failed to check shipped cartons: %w", err)
		}
		result.ReshippedCartonIDs = nil
		if len(reshipped) > 0 {
			result.ReshippedCartonIDs = reshipped
			log.Printf("Warning: cartons %v of PO %s are already in another shipment", reshipped, po)
		}

		shipment := &models.Shipment{
			Reference:    result.Reference,
			PONumber:     po,
			Courier:      courier,
			AWBNumber:    awb,
			ShipmentDate: result.ShipmentDate,
			TotalCartons: result.TotalCartons,
			TotalWeight:  result.TotalWeight,
			Cartons:      links,
		}
		if err := tx.Shipments().Create(ctx, shipment); err != nil {
			return fmt.Errorf("failed to create shipment: %w", err)
		}
		result.ShipmentID = shipment.ID
		return nil
	})
	if err != nil {
		return nil, classify("create shipment", err)
	}

	log.Printf("Shipment %s created for PO %s: %d cartons, %s kg", result.Reference, po, result.TotalCartons, result.TotalWeight.StringFixed(3))
	s.notifier.ShipmentCreated(ctx, po, courier, awb, result.TotalCartons, result.TotalWeight)
	return result, nil
}

func (s *shipmentService) ListShipments(ctx context.Context, poNumber string) ([]models.Shipment, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}
	shipments, err := s.store.Shipments().GetByPO(ctx, po)
	if err != nil {
		return nil, &PersistenceError{Op: "list shipments", Err: err}
	}
	return shipments, nil
}
