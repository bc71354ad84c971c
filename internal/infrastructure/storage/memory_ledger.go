package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

type memoryLedgerStore struct {
	mu       sync.RWMutex
	products map[string]entity.Product     // key: product ID
	order    []string                      // catalog insertion order
	entries  map[string]entity.LedgerEntry // key: entry ID
	details  []entity.SaleDetail
}

// NewMemoryLedgerStore is the default backend when no database is configured.
// Everything is lost on restart.
func NewMemoryLedgerStore() repository.LedgerRepository {
	return &memoryLedgerStore{
		products: make(map[string]entity.Product),
		entries:  make(map[string]entity.LedgerEntry),
	}
}

func (m *memoryLedgerStore) GetCatalog(_ context.Context, userID int64) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []entity.Product
	for _, id := range m.order {
		p := m.products[id]
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryLedgerStore) GetProduct(_ context.Context, userID int64, productID string) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[productID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryLedgerStore) CreateProduct(_ context.Context, product entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.ID == "" {
		return fmt.Errorf("product needs an id")
	}
	if _, exists := m.products[product.ID]; !exists {
		m.order = append(m.order, product.ID)
	}
	m.products[product.ID] = product
	return nil
}

func (m *memoryLedgerStore) UpdateProductStock(_ context.Context, userID int64, productID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok || p.UserID != userID {
		return fmt.Errorf("product not found: %s", productID)
	}
	if p.Stock == nil {
		return nil
	}
	stock := *p.Stock + delta
	if stock < 0 {
		stock = 0
	}
	p.Stock = &stock
	m.products[productID] = p
	return nil
}

func (m *memoryLedgerStore) CreateLedgerEntry(_ context.Context, entry entity.LedgerEntry) (entity.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		return entity.LedgerEntry{}, fmt.Errorf("ledger entry needs an id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries[entry.ID] = entry
	return entry, nil
}

func (m *memoryLedgerStore) UpdateLedgerEntry(_ context.Context, userID int64, entryID string, update entity.LedgerUpdate) (entity.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryID]
	if !ok || entry.UserID != userID {
		return entity.LedgerEntry{}, fmt.Errorf("ledger entry not found: %s", entryID)
	}
	if update.Category != nil {
		entry.Category = strings.TrimSpace(*update.Category)
	}
	if update.Amount != nil {
		entry.Amount = *update.Amount
	}
	if update.Description != nil {
		entry.Description = *update.Description
	}
	m.entries[entryID] = entry
	return entry, nil
}

func (m *memoryLedgerStore) CreateSaleDetail(_ context.Context, detail entity.SaleDetail) (entity.SaleDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if detail.ID == "" {
		return entity.SaleDetail{}, fmt.Errorf("sale detail needs an id")
	}
	m.details = append(m.details, detail)
	return detail, nil
}

func (m *memoryLedgerStore) ListEntries(_ context.Context, userID int64, kind entity.EntryKind, since time.Time) ([]entity.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []entity.LedgerEntry
	for _, e := range m.entries {
		if e.UserID != userID || e.Kind != kind || e.Date.Before(since) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
