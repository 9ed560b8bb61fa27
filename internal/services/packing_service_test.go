package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"packing_tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAllDoneIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "1", "2": "2", "3": "3"})
	f.pack(t, "PO-1", "S", "1", "1")

	n, err := f.packing.MarkAllDone(ctx, "PO-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = f.packing.MarkAllDone(ctx, "PO-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = f.packing.MarkAllDone(ctx, "unknown")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	items, err := f.items.LoadItems(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemPacked), items[0].Status)
	assert.Equal(t, string(models.ItemDone), items[1].Status)
	assert.Equal(t, string(models.ItemDone), items[2].Status)
}

func TestPackItemsNumbersCartonsSequentially(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "10", "2": "20", "3": "30"})
	_, err := f.packing.MarkAllDone(ctx, "PO-1")
	require.NoError(t, err)

	first := f.pack(t, "PO-1", "60x40x40", "5.5", "1", "2")
	assert.Equal(t, 1, first.CartonNumber)
	assert.Equal(t, "PO-1-1-20261018", first.Barcode)
	assert.Equal(t, 2, first.ItemsPacked)
	require.NotNil(t, first.Completion)
	assert.False(t, first.Completion.IsComplete)
	assert.EqualValues(t, 1, first.Completion.RemainingItems)

	second := f.pack(t, "PO-1", "40x30x30", "3", "3")
	assert.Equal(t, 2, second.CartonNumber)
	assert.True(t, second.Completion.IsComplete)
	assert.Equal(t, []string{"PO-1"}, f.notifier.completed)

	items, err := f.items.LoadItems(ctx, "PO-1")
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, string(models.ItemPacked), item.Status)
		require.NotNil(t, item.CartonNumber)
	}
	assert.Equal(t, 1, *items[0].CartonNumber)
	assert.Equal(t, 2, *items[2].CartonNumber)
}

func TestPackItemsPartialQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "1,057"})

	res, err := f.packing.PackItems(ctx, PackRequest{
		PONumber:   "PO-1",
		CartonType: "L",
		Weight:     decimal.RequireFromString("12.75"),
		Items:      []PackSelection{{ItemNumber: "1", Quantity: "1,000"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, res.PartialItems)

	summaries, err := f.cartons.Summarize(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, res.CartonID, summaries[0].ID)
	require.Len(t, summaries[0].Items, 1)
	assert.Equal(t, "1000", summaries[0].Items[0].PackedQty)
	assert.Equal(t, "1057", summaries[0].Items[0].OriginalQty)
	assert.EqualValues(t, 1000, summaries[0].TotalQuantity)

	rest := f.pack(t, "PO-1", "S", "1", "1")
	assert.Empty(t, rest.PartialItems)
	assert.True(t, rest.Completion.IsComplete)

	summaries, err = f.cartons.Summarize(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "57", summaries[1].Items[0].PackedQty)
}

func TestPackItemsRemainderKeepsOrderOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "10"})

	pack := func(qty string) (*PackResult, error) {
		return f.packing.PackItems(ctx, PackRequest{
			PONumber:   "PO-1",
			CartonType: "S",
			Weight:     decimal.NewFromInt(1),
			Items:      []PackSelection{{ItemNumber: "1", Quantity: qty}},
		})
	}

	first, err := pack("3")
	require.NoError(t, err)
	require.NotNil(t, first.Completion)
	assert.False(t, first.Completion.IsComplete)
	assert.EqualValues(t, 0, first.Completion.PackedItems)
	assert.Empty(t, f.notifier.completed)

	items, err := f.items.LoadItems(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemDone), items[0].Status)
	assert.Equal(t, 1, *items[0].CartonNumber)

	_, err = pack("8")
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "remaining quantity 7")

	second, err := pack("7")
	require.NoError(t, err)
	assert.Equal(t, 2, second.CartonNumber)
	assert.True(t, second.Completion.IsComplete)
	assert.Equal(t, []string{"PO-1"}, f.notifier.completed)

	items, err = f.items.LoadItems(ctx, "PO-1")
	require.NoError(t, err)
	assert.Equal(t, string(models.ItemPacked), items[0].Status)
	assert.Equal(t, 2, *items[0].CartonNumber)

	_, err = pack("")
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "already packed in carton 2")

	res, err := f.lists.Render(ctx, "PO-1")
	require.NoError(t, err)
	pl := res.PackingList
	assert.Equal(t, 2, pl.TotalCartons)
	assert.Equal(t, 2, pl.TotalItems)
	assert.EqualValues(t, 10, pl.TotalQuantity)
	require.Len(t, pl.Lines, 2)
	assert.Equal(t, "3", pl.Lines[0].Quantity)
	assert.Equal(t, "7", pl.Lines[1].Quantity)
}

func TestPackItemsRejectsInvalidRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "10", "2": "20"})
	f.pack(t, "PO-1", "S", "1", "2")

	valid := func() PackRequest {
		return PackRequest{
			PONumber:   "PO-1",
			CartonType: "S",
			Weight:     decimal.NewFromInt(1),
			Items:      []PackSelection{{ItemNumber: "1"}},
		}
	}

	cases := map[string]struct {
		mutate   func(*PackRequest)
		notFound bool
	}{
		"empty po":         {mutate: func(r *PackRequest) { r.PONumber = " " }},
		"blank type":       {mutate: func(r *PackRequest) { r.CartonType = "" }},
		"zero weight":      {mutate: func(r *PackRequest) { r.Weight = decimal.Zero }},
		"negative weight":  {mutate: func(r *PackRequest) { r.Weight = decimal.NewFromInt(-2) }},
		"no items":         {mutate: func(r *PackRequest) { r.Items = nil }},
		"duplicate items":  {mutate: func(r *PackRequest) { r.Items = append(r.Items, PackSelection{ItemNumber: "1"}) }},
		"already packed":   {mutate: func(r *PackRequest) { r.Items = []PackSelection{{ItemNumber: "2"}} }},
		"zero quantity":    {mutate: func(r *PackRequest) { r.Items[0].Quantity = "0" }},
		"garbage quantity": {mutate: func(r *PackRequest) { r.Items[0].Quantity = "lots" }},
		"over quantity":    {mutate: func(r *PackRequest) { r.Items[0].Quantity = "11" }},
		"unknown item":     {mutate: func(r *PackRequest) { r.Items = []PackSelection{{ItemNumber: "9"}} }, notFound: true},
		"unknown po":       {mutate: func(r *PackRequest) { r.PONumber = "PO-9" }, notFound: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid()
			tc.mutate(&req)
			_, err := f.packing.PackItems(ctx, req)
			require.Error(t, err)
			if tc.notFound {
				assert.True(t, IsNotFound(err), err.Error())
			} else {
				assert.True(t, IsValidation(err), err.Error())
			}
		})
	}

	count, err := f.store.Cartons().CountByPO(ctx, "PO-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPackItemsIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "10", "2": "20"})

	_, err := f.packing.PackItems(ctx, PackRequest{
		PONumber:   "PO-1",
		CartonType: "S",
		Weight:     decimal.NewFromInt(1),
		Items:      []PackSelection{{ItemNumber: "1"}, {ItemNumber: "2", Quantity: "50"}},
	})
	require.True(t, IsValidation(err))

	completion, err := f.packing.CheckCompletion(ctx, "PO-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, completion.PackedItems)
	count, err := f.store.Cartons().CountByPO(ctx, "PO-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestPackItemsConcurrentCallsGetDistinctCartons(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	qty := map[string]string{}
	for i := 1; i <= 6; i++ {
		qty[fmt.Sprint(i)] = "1"
	}
	f.seed(t, "PO-1", qty)

	var wg sync.WaitGroup
	numbers := make([]int, 6)
	errs := make([]error, 6)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.packing.PackItems(ctx, PackRequest{
				PONumber:   "PO-1",
				CartonType: "S",
				Weight:     decimal.NewFromInt(1),
				Items:      []PackSelection{{ItemNumber: fmt.Sprint(i + 1)}},
			})
			errs[i] = err
			if err == nil {
				numbers[i] = res.CartonNumber
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(numbers)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, numbers)
	assert.Len(t, f.notifier.completed, 1)
}

func TestCheckCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.packing.CheckCompletion(ctx, "PO-0")
	require.NoError(t, err)
	assert.False(t, empty.IsComplete)
	assert.EqualValues(t, 0, empty.TotalItems)

	f.seed(t, "PO-1", map[string]string{"1": "1"})
	before, err := f.packing.CheckCompletion(ctx, "PO-1")
	require.NoError(t, err)
	assert.False(t, before.IsComplete)
	assert.EqualValues(t, 1, before.RemainingItems)

	f.pack(t, "PO-1", "S", "0.5", "1")
	after, err := f.packing.CheckCompletion(ctx, "PO-1")
	require.NoError(t, err)
	assert.True(t, after.IsComplete)
	assert.EqualValues(t, 1, after.PackedItems)
	assert.EqualValues(t, 0, after.RemainingItems)
}

func TestResetClearsCartonsAndKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "PO-1", map[string]string{"1": "1", "2": "2"})
	c1 := f.pack(t, "PO-1", "S", "1", "1")
	f.pack(t, "PO-1", "S", "1", "2")
	_, err := f.shipments.CreateShipment(ctx, ShipmentRequest{PONumber: "PO-1", Courier: "DHL", AWBNumber: "AWB1", CartonIDs: []uint{c1.CartonID}})
	require.NoError(t, err)
	_, err = f.lists.Render(ctx, "PO-1")
	require.NoError(t, err)

	res, err := f.packing.Reset(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.CartonsDeleted)
	assert.EqualValues(t, 2, res.ItemsReset)

	items, err := f.items.LoadItems(ctx, "PO-1")
	require.NoError(t, err)
	for _, item := range items {
		assert.Equal(t, string(models.ItemNotPacked), item.Status)
		assert.Nil(t, item.CartonNumber)
		assert.Nil(t, item.PLNumber)
	}
	summaries, err := f.cartons.Summarize(ctx, "PO-1")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	shipments, err := f.shipments.ListShipments(ctx, "PO-1")
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.Empty(t, shipments[0].Cartons)

	_, err = f.lists.Get(ctx, "PL0000001")
	require.NoError(t, err)

	again := f.pack(t, "PO-1", "S", "1", "1")
	assert.Equal(t, 1, again.CartonNumber)

	_, err = f.packing.Reset(ctx)
	require.NoError(t, err)
	_, err = f.packing.Reset(ctx)
	require.NoError(t, err)
}
