package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// fakeLedgerRepo is an in-memory LedgerRepository test double with
// per-operation failure switches.
type fakeLedgerRepo struct {
	mu      sync.Mutex
	catalog []entity.Product
	entries []entity.LedgerEntry
	details []entity.SaleDetail
	stock   map[string]int

	failCreateEntry  bool
	failCreateDetail bool
	failUpdateEntry  bool
}

func newFakeLedgerRepo(catalog ...entity.Product) *fakeLedgerRepo {
	return &fakeLedgerRepo{catalog: catalog, stock: make(map[string]int)}
}

func (f *fakeLedgerRepo) GetCatalog(_ context.Context, userID int64) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Product
	for _, p := range f.catalog {
		if p.UserID == 0 || p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) GetProduct(_ context.Context, userID int64, productID string) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.catalog {
		if f.catalog[i].ID == productID {
			p := f.catalog[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeLedgerRepo) CreateProduct(_ context.Context, product entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog = append(f.catalog, product)
	return nil
}

func (f *fakeLedgerRepo) UpdateProductStock(_ context.Context, _ int64, productID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[productID] += delta
	return nil
}

func (f *fakeLedgerRepo) CreateLedgerEntry(_ context.Context, entry entity.LedgerEntry) (entity.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateEntry {
		return entity.LedgerEntry{}, errors.New("ledger write refused")
	}
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	}
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLedgerRepo) UpdateLedgerEntry(_ context.Context, _ int64, entryID string, update entity.LedgerUpdate) (entity.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateEntry {
		return entity.LedgerEntry{}, errors.New("ledger update refused")
	}
	for i := range f.entries {
		if f.entries[i].ID != entryID {
			continue
		}
		if update.Category != nil {
			f.entries[i].Category = *update.Category
		}
		if update.Amount != nil {
			f.entries[i].Amount = *update.Amount
		}
		if update.Description != nil {
			f.entries[i].Description = *update.Description
		}
		return f.entries[i], nil
	}
	return entity.LedgerEntry{}, fmt.Errorf("entry not found: %s", entryID)
}

func (f *fakeLedgerRepo) CreateSaleDetail(_ context.Context, detail entity.SaleDetail) (entity.SaleDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateDetail {
		return entity.SaleDetail{}, errors.New("detail write refused")
	}
	f.details = append(f.details, detail)
	return detail, nil
}

func (f *fakeLedgerRepo) ListEntries(_ context.Context, userID int64, kind entity.EntryKind, since time.Time) ([]entity.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Kind == kind && !e.Date.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// sellerFixtures returns the wired core against a fake repo and a store with
// an adjustable clock.
func newTestCore(catalog ...entity.Product) (*fakeLedgerRepo, *MemoryContextStore, *ImageSaleEngine, *CorrectionResolver, *SalesDispatcher) {
	repo := newFakeLedgerRepo(catalog...)
	store := NewMemoryContextStore(0)
	sales := NewSaleRegistrationService(repo)
	engine := NewImageSaleEngine(repo, store, sales)
	corrections := NewCorrectionResolver(repo, store)
	dispatcher := NewSalesDispatcher(repo, store, engine, corrections, sales, nil)
	return repo, store, engine, corrections, dispatcher
}
