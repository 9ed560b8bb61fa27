package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"packing_tracker/internal/locker"
	"packing_tracker/internal/models"
	"packing_tracker/internal/render"
	"packing_tracker/internal/repository"
	"packing_tracker/internal/utils"

	"gorm.io/gorm"
)

// DocumentCache keeps rendered packing lists. Implemented by the Redis client.
type DocumentCache interface {
	SetPackingListHTML(ctx context.Context, plNumber, html string, ttl time.Duration) error
	GetPackingListHTML(ctx context.Context, plNumber string) (string, bool, error)
}

// Printer turns HTML into a PDF.
type Printer interface {
	Print(ctx context.Context, html string) ([]byte, error)
}

// Renumbering records one carton moved by FinalizeCartonNumbering. Barcode
// is the label reprinted for the new number.
type Renumbering struct {
	CartonID uint   `json:"carton_id"`
	From     int    `json:"from"`
	To       int    `json:"to"`
	Barcode  string `json:"barcode"`
}

type PackingListResult struct {
	PackingList *models.PackingList `json:"packing_list"`
	Renumbered  []Renumbering       `json:"renumbered,omitempty"`
	HTML        string              `json:"-"`
}

type PackingListService interface {
	Render(ctx context.Context, poNumber string) (*PackingListResult, error)
	FinalizeCartonNumbering(ctx context.Context, poNumber string) ([]Renumbering, error)
	Get(ctx context.Context, plNumber string) (*models.PackingList, error)
	HTML(ctx context.Context, plNumber string) (string, error)
	PDF(ctx context.Context, plNumber string) ([]byte, error)
}

type packingListService struct {
	store    repository.Store
	locker   locker.Locker
	cache    DocumentCache
	cacheTTL time.Duration
	printer  Printer
}

// NewPackingListService wires the renderer. cache and printer may be nil.
func NewPackingListService(store repository.Store, lk locker.Locker, cache DocumentCache, cacheTTL time.Duration, printer Printer) PackingListService {
	return &packingListService{store: store, locker: lk, cache: cache, cacheTTL: cacheTTL, printer: printer}
}

func (s *packingListService) Render(ctx context.Context, poNumber string) (*PackingListResult, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}

	release, err := s.locker.Lock(ctx, locker.PurchaseOrderKey(po))
	if err != nil {
		return nil, &ConflictError{Message: "could not lock purchase order " + po, Err: err}
	}
	defer release()
	releaseSeq, err := s.locker.Lock(ctx, locker.PackingListSequenceKey)
	if err != nil {
		return nil, &ConflictError{Message: "could not lock packing list sequence", Err: err}
	}
	defer releaseSeq()

	result := &PackingListResult{}
	err = withUniqueRetry(func() error {
		return s.store.Transaction(ctx, func(tx repository.Store) error {
			pl, renumbered, err := s.renderOnce(ctx, tx, po)
			if err != nil {
				return err
			}
			result.PackingList = pl
			result.Renumbered = renumbered
			return nil
		})
	})
	if err != nil {
		return nil, classify("render packing list", err)
	}

	html, err := render.HTML(render.FromPackingList(result.PackingList))
	if err != nil {
		return nil, err
	}
	result.HTML = html
	s.cacheHTML(ctx, result.PackingList.PLNumber, html)

	log.Printf("Packing list %s generated for PO %s: %d cartons, %d items, qty %d",
		result.PackingList.PLNumber, po, result.PackingList.TotalCartons, result.PackingList.TotalItems, result.PackingList.TotalQuantity)
	return result, nil
}

func (s *packingListService) renderOnce(ctx context.Context, tx repository.Store, po string) (*models.PackingList, []Renumbering, error) {
	if err := tx.AdvisoryLock(ctx, locker.PurchaseOrderKey(po)); err != nil {
		return nil, nil, fmt.Errorf("failed to take advisory lock: %w", err)
	}
	if err := tx.AdvisoryLock(ctx, locker.PackingListSequenceKey); err != nil {
		return nil, nil, fmt.Errorf("failed to take advisory lock: %w", err)
	}

	total, packed, err := tx.Items().CountByStatus(ctx, po)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count items: %w", err)
	}
	if total == 0 {
		return nil, nil, &NotFoundError{Resource: "purchase order", Key: po}
	}
	if packed == 0 {
		return nil, nil, &NotFoundError{Resource: "packed items for purchase order", Key: po}
	}

	renumbered, err := finalizeCartonNumbering(ctx, tx, po)
	if err != nil {
		return nil, nil, err
	}

	cartons, err := tx.Cartons().GetByPO(ctx, po)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cartons: %w", err)
	}

	latest, err := tx.PackingLists().LatestNumber(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read packing list sequence: %w", err)
	}
	plNumber, err := utils.NextPLNumber(latest)
	if err != nil {
		return nil, nil, err
	}

	// Lines come from carton contents, so an item split over several
	// cartons prints once per carton.
	pl := &models.PackingList{PLNumber: plNumber, PONumber: po, CreatedAt: now()}
	var quantities []string
	var cartonNumbers []int
	for _, carton := range cartons {
		if len(carton.Items) == 0 {
			continue
		}
		cartonNumbers = append(cartonNumbers, carton.CartonNumber)
		for _, ci := range carton.Items {
			quantities = append(quantities, ci.PackedQty)
			pl.Lines = append(pl.Lines, models.PackingListLine{
				CartonNumber: carton.CartonNumber,
				CartonType:   carton.CartonType,
				CartonWeight: carton.Weight,
				ItemNumber:   ci.ItemNumber,
				Description:  ci.Description,
				Color:        ci.Color,
				Quantity:     ci.PackedQty,
			})
		}
	}
	pl.TotalCartons = len(cartonNumbers)
	pl.TotalItems = len(pl.Lines)
	pl.TotalQuantity = utils.SumQuantities(quantities)

	if err := tx.PackingLists().Create(ctx, pl); err != nil {
		return nil, nil, fmt.Errorf("failed to create packing list: %w", err)
	}
	if _, err := tx.Items().StampPackingList(ctx, po, plNumber); err != nil {
		return nil, nil, fmt.Errorf("failed to stamp items: %w", err)
	}
	if err := tx.Cartons().StampPackingList(ctx, po, plNumber, cartonNumbers); err != nil {
		return nil, nil, fmt.Errorf("failed to stamp cartons: %w", err)
	}
	return pl, renumbered, nil
}

func (s *packingListService) FinalizeCartonNumbering(ctx context.Context, poNumber string) ([]Renumbering, error) {
	po := strings.TrimSpace(poNumber)
	if po == "" {
		return nil, newValidationError("po_number is required")
	}

	release, err := s.locker.Lock(ctx, locker.PurchaseOrderKey(po))
	if err != nil {
		return nil, &ConflictError{Message: "could not lock purchase order " + po, Err: err}
	}
	defer release()

	var renumbered []Renumbering
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.AdvisoryLock(ctx, locker.PurchaseOrderKey(po)); err != nil {
			return fmt.Errorf("failed to take advisory lock: %w", err)
		}
		var err error
		renumbered, err = finalizeCartonNumbering(ctx, tx, po)
		return err
	})
	if err != nil {
		return nil, classify("finalize carton numbering", err)
	}
	return renumbered, nil
}

// finalizeCartonNumbering makes the carton numbers of a PO dense. Cartons
// holding goods become 1..N in ascending order of their old number, empty
// ones follow after N. Moves go through negative numbers first so the
// (po_number, carton_number) index never sees a duplicate. A moved carton
// gets the barcode of its new number, dated as before.
func finalizeCartonNumbering(ctx context.Context, tx repository.Store, po string) ([]Renumbering, error) {
	cartons, err := tx.Cartons().GetByPO(ctx, po)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartons: %w", err)
	}
	sort.SliceStable(cartons, func(i, j int) bool {
		ui, uj := len(cartons[i].Items) > 0, len(cartons[j].Items) > 0
		if ui != uj {
			return ui
		}
		return cartons[i].CartonNumber < cartons[j].CartonNumber
	})

	var moves []Renumbering
	for i, c := range cartons {
		if target := i + 1; c.CartonNumber != target {
			moves = append(moves, Renumbering{
				CartonID: c.ID,
				From:     c.CartonNumber,
				To:       target,
				Barcode:  utils.CartonBarcode(po, target, c.CreatedAt),
			})
		}
	}
	if len(moves) == 0 {
		return nil, nil
	}

	for _, m := range moves {
		if err := moveCarton(ctx, tx, po, m.CartonID, m.From, -m.To, ""); err != nil {
			return nil, err
		}
	}
	for _, m := range moves {
		if err := moveCarton(ctx, tx, po, m.CartonID, -m.To, m.To, m.Barcode); err != nil {
			return nil, err
		}
	}
	log.Printf("Renumbered %d cartons of PO %s", len(moves), po)
	return moves, nil
}

func moveCarton(ctx context.Context, tx repository.Store, po string, id uint, from, to int, barcode string) error {
	if err := tx.Cartons().UpdateNumber(ctx, id, to, barcode); err != nil {
		return fmt.Errorf("failed to renumber carton %d: %w", id, err)
	}
	if err := tx.Items().MoveCarton(ctx, po, from, to); err != nil {
		return fmt.Errorf("failed to move items of carton %d: %w", from, err)
	}
	return nil
}

func (s *packingListService) Get(ctx context.Context, plNumber string) (*models.PackingList, error) {
	pl := strings.TrimSpace(plNumber)
	if _, err := utils.ParsePLNumber(pl); err != nil {
		return nil, newValidationError("invalid packing list number %q", plNumber)
	}
	list, err := s.store.PackingLists().GetByNumber(ctx, pl)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "packing list", Key: pl}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load packing list", Err: err}
	}
	return list, nil
}

func (s *packingListService) HTML(ctx context.Context, plNumber string) (string, error) {
	pl := strings.TrimSpace(plNumber)
	if s.cache != nil {
		html, ok, err := s.cache.GetPackingListHTML(ctx, pl)
		if err != nil {
			log.Printf("Failed to read cached packing list %s: %v", pl, err)
		} else if ok {
			return html, nil
		}
	}

	list, err := s.Get(ctx, pl)
	if err != nil {
		return "", err
	}
	html, err := render.HTML(render.FromPackingList(list))
	if err != nil {
		return "", err
	}
	s.cacheHTML(ctx, list.PLNumber, html)
	return html, nil
}

func (s *packingListService) PDF(ctx context.Context, plNumber string) ([]byte, error) {
	if s.printer == nil {
		return nil, errors.New("PDF printing is not configured")
	}
	html, err := s.HTML(ctx, plNumber)
	if err != nil {
		return nil, err
	}
	return s.printer.Print(ctx, html)
}

func (s *packingListService) cacheHTML(ctx context.Context, plNumber, html string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetPackingListHTML(ctx, plNumber, html, s.cacheTTL); err != nil {
		log.Printf("Failed to cache packing list %s: %v", plNumber, err)
	}
}
