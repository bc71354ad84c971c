package storage

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

func TestMemoryLedgerCatalogRoundTrip(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	price := 80.0
	if err := store.CreateProduct(ctx, entity.Product{ID: "p1", UserID: 1, Name: "fone bluetooth", SalePrice: &price}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateProduct(ctx, entity.Product{ID: "p2", UserID: 1, Name: "capinha"}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateProduct(ctx, entity.Product{ID: "p3", UserID: 2, Name: "relógio"}); err != nil {
		t.Fatal(err)
	}

	catalog, err := store.GetCatalog(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catálogo do usuário 1 devia ter 2 itens, veio %d", len(catalog))
	}
	if catalog[0].Name != "fone bluetooth" || catalog[1].Name != "capinha" {
		t.Errorf("ordem de inserção não preservada: %+v", catalog)
	}

	p, err := store.GetProduct(ctx, 1, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.SalePrice == nil || *p.SalePrice != 80 {
		t.Fatalf("GetProduct(p1): %+v", p)
	}

	// Cross-user lookups miss without an error.
	if p, err = store.GetProduct(ctx, 1, "p3"); err != nil || p != nil {
		t.Errorf("produto de outro usuário devia ser invisível: (%+v, %v)", p, err)
	}
	if p, err = store.GetProduct(ctx, 1, "nope"); err != nil || p != nil {
		t.Errorf("produto inexistente: (%+v, %v)", p, err)
	}
}

func TestMemoryLedgerStock(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	stock := 2
	if err := store.CreateProduct(ctx, entity.Product{ID: "p1", UserID: 1, Name: "fone", Stock: &stock}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateProduct(ctx, entity.Product{ID: "p2", UserID: 1, Name: "capinha"}); err != nil {
		t.Fatal(err)
	}

	if err := store.UpdateProductStock(ctx, 1, "p1", -1); err != nil {
		t.Fatal(err)
	}
	if err := store.UpdateProductStock(ctx, 1, "p1", -5); err != nil {
		t.Fatal(err)
	}
	p, _ := store.GetProduct(ctx, 1, "p1")
	if p.Stock == nil || *p.Stock != 0 {
		t.Errorf("estoque não pode ficar negativo: %+v", p.Stock)
	}

	// Untracked products ignore stock updates.
	if err := store.UpdateProductStock(ctx, 1, "p2", -1); err != nil {
		t.Fatal(err)
	}
	p, _ = store.GetProduct(ctx, 1, "p2")
	if p.Stock != nil {
		t.Error("produto sem estoque devia continuar sem estoque")
	}

	if err := store.UpdateProductStock(ctx, 1, "nope", -1); err == nil {
		t.Error("produto inexistente devia dar erro")
	}
}

func TestMemoryLedgerEntries(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	for i, e := range []entity.LedgerEntry{
		{ID: "e1", UserID: 1, Kind: entity.KindRevenue, Amount: 80, Category: "vendas", Date: base},
		{ID: "e2", UserID: 1, Kind: entity.KindRevenue, Amount: 20, Category: "vendas", Date: base.AddDate(0, 0, -40)},
		{ID: "e3", UserID: 1, Kind: entity.KindExpense, Amount: 50, Category: "alimentação", Date: base},
		{ID: "e4", UserID: 2, Kind: entity.KindRevenue, Amount: 99, Category: "vendas", Date: base},
	} {
		if _, err := store.CreateLedgerEntry(ctx, e); err != nil {
			t.Fatalf("entrada %d: %v", i, err)
		}
	}

	since := base.AddDate(0, 0, -7)
	entries, err := store.ListEntries(ctx, 1, entity.KindRevenue, since)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("filtro de usuário/tipo/data errado: %+v", entries)
	}

	newCat := "transporte"
	updated, err := store.UpdateLedgerEntry(ctx, 1, "e3", entity.LedgerUpdate{Category: &newCat})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Category != "transporte" || updated.Amount != 50 {
		t.Errorf("atualização parcial errada: %+v", updated)
	}

	if _, err := store.UpdateLedgerEntry(ctx, 2, "e3", entity.LedgerUpdate{Category: &newCat}); err == nil {
		t.Error("usuário não pode editar lançamento alheio")
	}
}

func TestMemoryLedgerSaleDetail(t *testing.T) {
	store := NewMemoryLedgerStore()
	ctx := context.Background()

	entry, err := store.CreateLedgerEntry(ctx, entity.LedgerEntry{
		ID: "e1", UserID: 1, Kind: entity.KindRevenue, Amount: 80, Category: "vendas", Date: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	detail, err := store.CreateSaleDetail(ctx, entity.SaleDetail{
		ID: "d1", UserID: 1, LedgerEntryID: entry.ID, Quantity: 1, UnitPrice: 80,
	})
	if err != nil {
		t.Fatal(err)
	}
	if detail.LedgerEntryID != "e1" {
		t.Errorf("detalhe desvinculado do lançamento: %+v", detail)
	}

	if _, err := store.CreateSaleDetail(ctx, entity.SaleDetail{UserID: 1}); err == nil {
		t.Error("detalhe sem ID devia ser rejeitado")
	}
}
