package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PgErrUniqueViolation is the Postgres unique_violation code.
const PgErrUniqueViolation = "23505"

// Store groups the packing repositories over one connection or transaction.
type Store interface {
	PurchaseOrders() PurchaseOrderRepository
	Items() ItemRepository
	Cartons() CartonRepository
	Shipments() ShipmentRepository
	PackingLists() PackingListRepository

	// Transaction runs fn with a Store bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	// AdvisoryLock blocks until the transaction-scoped lock for key is held.
	// It is a no-op outside Postgres.
	AdvisoryLock(ctx context.Context, key string) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) PurchaseOrders() PurchaseOrderRepository {
	return NewPurchaseOrderRepository(s.db)
}

func (s *store) Items() ItemRepository {
	return NewItemRepository(s.db)
}

func (s *store) Cartons() CartonRepository {
	return NewCartonRepository(s.db)
}

func (s *store) Shipments() ShipmentRepository {
	return NewShipmentRepository(s.db)
}

func (s *store) PackingLists() PackingListRepository {
	return NewPackingListRepository(s.db)
}

func (s *store) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

func (s *store) AdvisoryLock(ctx context.Context, key string) error {
	if !isPostgres(s.db) {
		return nil
	}
	return s.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == PgErrUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports row locks.
func forUpdate(db *gorm.DB) *gorm.DB {
	if isPostgres(db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
