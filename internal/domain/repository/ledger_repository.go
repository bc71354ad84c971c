package repository

import (
	"context"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// LedgerRepository is the single storage contract of the bot. The core never
// knows which backend sits behind it (in-memory or Postgres).
type LedgerRepository interface {
	// GetCatalog returns every product the user registered.
	GetCatalog(ctx context.Context, userID int64) ([]entity.Product, error)

	// GetProduct looks a product up by ID. Returns nil when absent.
	GetProduct(ctx context.Context, userID int64, productID string) (*entity.Product, error)

	// CreateProduct registers a new catalog item.
	CreateProduct(ctx context.Context, product entity.Product) error

	// UpdateProductStock adjusts the stock counter by delta (negative on sale).
	// Products without stock tracking are left untouched.
	UpdateProductStock(ctx context.Context, userID int64, productID string, delta int) error

	// CreateLedgerEntry writes a transaction row and returns it with its ID set.
	CreateLedgerEntry(ctx context.Context, entry entity.LedgerEntry) (entity.LedgerEntry, error)

	// UpdateLedgerEntry applies the non-nil fields of update to an entry.
	UpdateLedgerEntry(ctx context.Context, userID int64, entryID string, update entity.LedgerUpdate) (entity.LedgerEntry, error)

	// CreateSaleDetail writes the detailed sale row referencing a ledger entry.
	CreateSaleDetail(ctx context.Context, detail entity.SaleDetail) (entity.SaleDetail, error)

	// ListEntries returns the user's entries of one kind since a point in time,
	// oldest first.
	ListEntries(ctx context.Context, userID int64, kind entity.EntryKind, since time.Time) ([]entity.LedgerEntry, error)
}
