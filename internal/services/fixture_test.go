package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"packing_tracker/internal/locker"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu        sync.Mutex
	completed []string
	shipped   []string
}

func (n *recordingNotifier) PackingComplete(_ context.Context, po string, _ int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, po)
}

func (n *recordingNotifier) ShipmentCreated(_ context.Context, po, _, awb string, _ int, _ decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shipped = append(n.shipped, po+"/"+awb)
}

type fixture struct {
	db        *gorm.DB
	store     repository.Store
	items     ItemService
	packing   PackingService
	cartons   CartonService
	shipments ShipmentService
	lists     PackingListService
	notifier  *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	lk := locker.NewLocalLocker()
	notifier := &recordingNotifier{}

	prev := now
	now = func() time.Time { return time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })

	return &fixture{
		db:        db,
		store:     store,
		items:     NewItemService(store),
		packing:   NewPackingService(store, lk, notifier),
		cartons:   NewCartonService(store),
		shipments: NewShipmentService(store, lk, notifier),
		lists:     NewPackingListService(store, lk, nil, 0, nil),
		notifier:  notifier,
	}
}

// seed imports a PO whose items are numbered as given, with quantities.
func (f *fixture) seed(t *testing.T, po string, qty map[string]string) {
	t.Helper()
	req := ImportRequest{PONumber: po, Buyer: "Acme Apparel"}
	for number, q := range qty {
		req.Items = append(req.Items, ImportItem{ItemNumber: number, Description: "Item " + number, Color: "Navy", Quantity: q})
	}
	_, err := f.items.Import(context.Background(), req)
	require.NoError(t, err)
}

func (f *fixture) pack(t *testing.T, po, cartonType, weight string, items ...string) *PackResult {
	t.Helper()
	req := PackRequest{PONumber: po, CartonType: cartonType, Weight: decimal.RequireFromString(weight)}
	for _, n := range items {
		req.Items = append(req.Items, PackSelection{ItemNumber: n})
	}
	res, err := f.packing.PackItems(context.Background(), req)
	require.NoError(t, err)
	return res
}
