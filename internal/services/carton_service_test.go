package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "10", "2": "1,200", "3": "x"})
	f.pack(t, "PO-1", "60x40x40", "5.250", "1", "2")
	f.pack(t, "PO-1", "40x30x30", "2", "3")

	summaries, err := f.cartons.Summarize(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, 1, first.CartonNumber)
	assert.Equal(t, "60x40x40", first.CartonType)
	assert.True(t, decimal.RequireFromString("5.25").Equal(first.Weight))
	assert.Equal(t, "PO-1-1-20261018", first.Barcode)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "1", first.Items[0].ItemNumber)
	assert.Equal(t, "Item 1", first.Items[0].Description)
	assert.EqualValues(t, 1210, first.TotalQuantity)

	assert.Equal(t, 2, summaries[1].CartonNumber)
	assert.EqualValues(t, 0, summaries[1].TotalQuantity)

	empty, err := f.cartons.Summarize(ctx, "PO-2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListForShipmentReportsMissingCartons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "1", "2": "1"})
	c1 := f.pack(t, "PO-1", "S", "1.5", "1")
	c2 := f.pack(t, "PO-1", "S", "2.25", "2")

	weights, err := f.cartons.ListForShipment(ctx, []uint{c1.CartonID, 999, c2.CartonID, 1000})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "carton 999 not found")
	assert.Contains(t, err.Error(), "carton 1000 not found")

	require.Len(t, weights, 2)
	assert.Equal(t, c1.CartonID, weights[0].CartonID)
	assert.True(t, decimal.RequireFromString("1.5").Equal(weights[0].Weight))
	assert.Equal(t, 2, weights[1].CartonNumber)

	all, err := f.cartons.ListForShipment(ctx, []uint{c2.CartonID})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
