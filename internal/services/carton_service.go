package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"packing_tracker/internal/models"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/utils"

	"github.com/shopspring/decimal"
)

// CartonSummary is a carton with its rows and the sum of packed quantities.
type CartonSummary struct {
	models.Carton
	TotalQuantity int64 `json:"total_quantity"`
}

// CartonWeight is the slice of a carton a shipment needs.
type CartonWeight struct {
	CartonID     uint            `json:"carton_id"`
	PONumber     string          `json:"po_number"`
	CartonNumber int             `json:"carton_number"`
	Weight       decimal.Decimal `json:"weight"`
}

type CartonService interface {
	Summarize(ctx context.Context, poNumber string) ([]CartonSummary, error)
	// ListForShipment returns the cartons it found and, for every missing id,
	// a NotFoundError joined into err. The partial result stays usable.
	ListForShipment(ctx context.Context, ids []uint) ([]CartonWeight, error)
}

type cartonService struct {
	store repository.Store
}

func NewCartonService(store repository.Store) CartonService {
	return &cartonService{store: store}
}

func (s *cartonService) Summarize(ctx context.Context, poNumber string) ([]CartonSummary, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}
	cartons, err := s.store.Cartons().GetByPO(ctx, po)
	if err != nil {
		return nil, &PersistenceError{Op: "summarize cartons", Err: err}
	}
	summaries := make([]CartonSummary, 0, len(cartons))
	for _, c := range cartons {
		qty := make([]string, 0, len(c.Items))
		for _, it := range c.Items {
			qty = append(qty, it.PackedQty)
		}
		summaries = append(summaries, CartonSummary{Carton: c, TotalQuantity: utils.SumQuantities(qty)})
	}
	return summaries, nil
}

func (s *cartonService) ListForShipment(ctx context.Context, ids []uint) ([]CartonWeight, error) {
	return cartonWeights(ctx, s.store, ids)
}

// cartonWeights looks cartons up through whichever store it is handed, so a
// shipment can read them inside its own transaction.
func cartonWeights(ctx context.Context, store repository.Store, ids []uint) ([]CartonWeight, error) {
	cartons, err := store.Cartons().GetByIDs(ctx, ids)
	if err != nil {
		return nil, &PersistenceError{Op: "load cartons", Err: err}
	}
	byID := make(map[uint]models.Carton, len(cartons))
	for _, c := range cartons {
		byID[c.ID] = c
	}

	weights := make([]CartonWeight, 0, len(ids))
	var missing []error
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			missing = append(missing, &NotFoundError{Resource: "carton", Key: fmt.Sprint(id)})
			continue
		}
		weights = append(weights, CartonWeight{
			CartonID:     c.ID,
			PONumber:     c.PONumber,
			CartonNumber: c.CartonNumber,
			Weight:       c.Weight,
		})
	}
	return weights, errors.Join(missing...)
}
