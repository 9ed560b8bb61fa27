package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateShipment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "1", "2": "1"})
	f.seed(t, "PO-2", map[string]string{"1": "1"})
	c1 := f.pack(t, "PO-1", "S", "1.5", "1")
	c2 := f.pack(t, "PO-1", "S", "2.25", "2")
	other := f.pack(t, "PO-2", "S", "9", "1")

	res, err := f.shipments.CreateShipment(ctx, ShipmentRequest{
		PONumber:  "PO-1",
		Courier:   "DHL",
		AWBNumber: "1234567890",
		CartonIDs: []uint{c1.CartonID, c2.CartonID, 999, other.CartonID},
	})
	require.NoError(t, err)
	assert.NotZero(t, res.ShipmentID)
	assert.NotEmpty(t, res.Reference)
	assert.Equal(t, "2026-10-18", res.ShipmentDate)
	assert.Equal(t, 4, res.TotalCartons)
	assert.True(t, decimal.RequireFromString("3.75").Equal(res.TotalWeight), res.TotalWeight.String())
	assert.ElementsMatch(t, []uint{999, other.CartonID}, res.MissingCartonIDs)
	assert.Equal(t, []string{"PO-1/1234567890"}, f.notifier.shipped)

	shipments, err := f.shipments.ListShipments(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	s := shipments[0]
	assert.Equal(t, "DHL", s.Courier)
	assert.Equal(t, 4, s.TotalCartons)
	assert.True(t, decimal.RequireFromString("3.75").Equal(s.TotalWeight))
	require.Len(t, s.Cartons, 2)
	assert.ElementsMatch(t, []uint{c1.CartonID, c2.CartonID}, []uint{s.Cartons[0].CartonID, s.Cartons[1].CartonID})
}

func TestCreateShipmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := ShipmentRequest{PONumber: "PO-1", Courier: "DHL", AWBNumber: "A", CartonIDs: []uint{1}}
	for name, mutate := range map[string]func(*ShipmentRequest){
		"po":        func(r *ShipmentRequest) { r.PONumber = "" },
		"courier":   func(r *ShipmentRequest) { r.Courier = " " },
		"awb":       func(r *ShipmentRequest) { r.AWBNumber = "" },
		"cartons":   func(r *ShipmentRequest) { r.CartonIDs = nil },
		"duplicate": func(r *ShipmentRequest) { r.CartonIDs = []uint{1, 1} },
	} {
		t.Run(name, func(t *testing.T) {
			req := base
			req.CartonIDs = append([]uint(nil), base.CartonIDs...)
			mutate(&req)
			_, err := f.shipments.CreateShipment(ctx, req)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestCreateShipmentWithOnlyUnknownCartons(t *testing.T) {
	f := newFixture(t)

	res, err := f.shipments.CreateShipment(context.Background(), ShipmentRequest{
		PONumber: "PO-1", Courier: "FedEx", AWBNumber: "X1", CartonIDs: []uint{7, 8},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCartons)
	assert.True(t, res.TotalWeight.IsZero())
	assert.Equal(t, []uint{7, 8}, res.MissingCartonIDs)
}

func TestCreateShipmentFlagsCartonsAlreadyShipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "1", "2": "1"})
	c1 := f.pack(t, "PO-1", "S", "2", "1")
	c2 := f.pack(t, "PO-1", "S", "1", "2")

	first, err := f.shipments.CreateShipment(ctx, ShipmentRequest{PONumber: "PO-1", Courier: "DHL", AWBNumber: "A1", CartonIDs: []uint{c1.CartonID}})
	require.NoError(t, err)
	assert.Empty(t, first.ReshippedCartonIDs)

	second, err := f.shipments.CreateShipment(ctx, ShipmentRequest{PONumber: "PO-1", Courier: "FedEx", AWBNumber: "B2", CartonIDs: []uint{c1.CartonID, c2.CartonID}})
	require.NoError(t, err)
	assert.Equal(t, []uint{c1.CartonID}, second.ReshippedCartonIDs)
	assert.True(t, decimal.RequireFromString("3").Equal(second.TotalWeight), second.TotalWeight.String())

	shipments, err := f.shipments.ListShipments(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, shipments, 2)
	assert.Len(t, shipments[1].Cartons, 2)
}
