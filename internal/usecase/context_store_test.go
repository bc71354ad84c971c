package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

func newStoreWithClock(ttl time.Duration) (*MemoryContextStore, *time.Time) {
	store := NewMemoryContextStore(ttl)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	now := base
	store.now = func() time.Time { return now }
	return store, &now
}

func TestContextStoreSingularity(t *testing.T) {
	store, _ := newStoreWithClock(5 * time.Minute)

	ctxA := &PendingContext{Correction: &CorrectionContext{EntryID: "a"}}
	ctxB := &PendingContext{Correction: &CorrectionContext{EntryID: "b"}}

	store.Set(1, ctxA)
	store.Set(1, ctxB)

	got := store.Get(1)
	if got == nil || got.Correction.EntryID != "b" {
		t.Fatalf("esperava contexto b, veio %+v", got)
	}

	// A stale timer from ctxA must never evict ctxB: the sequence recorded
	// for ctxA no longer matches.
	store.expire(1, 1)
	if got := store.Get(1); got == nil || got.Correction.EntryID != "b" {
		t.Fatalf("timer antigo apagou o contexto novo: %+v", got)
	}
}

func TestContextStoreTTLBoundary(t *testing.T) {
	store, now := newStoreWithClock(5 * time.Minute)

	store.Set(1, &PendingContext{ImageSale: &ImageSaleContext{ProductName: "fone"}})

	*now = now.Add(299 * time.Second)
	if store.Get(1) == nil {
		t.Fatal("contexto devia estar vivo aos 299s")
	}

	*now = now.Add(2 * time.Second) // 301s
	if got := store.Get(1); got != nil {
		t.Fatalf("contexto devia ter expirado aos 301s, veio %+v", got)
	}

	// Lazy eviction removed the entry for good.
	if store.Get(1) != nil {
		t.Fatal("entrada expirada não foi removida")
	}
}

func TestContextStoreSweep(t *testing.T) {
	store, now := newStoreWithClock(5 * time.Minute)

	store.Set(1, &PendingContext{ImageSale: &ImageSaleContext{ProductName: "velho"}})
	*now = now.Add(4 * time.Minute)
	store.Set(2, &PendingContext{ImageSale: &ImageSaleContext{ProductName: "novo"}})

	*now = now.Add(2 * time.Minute) // user 1 at 6min, user 2 at 2min
	store.Sweep()

	store.mu.RLock()
	_, oldExists := store.entries[1]
	_, newExists := store.entries[2]
	store.mu.RUnlock()

	if oldExists {
		t.Error("sweep não removeu o contexto expirado")
	}
	if !newExists {
		t.Error("sweep removeu um contexto vivo")
	}
}

func TestContextStoreClearIsIdempotent(t *testing.T) {
	store, _ := newStoreWithClock(5 * time.Minute)
	store.Set(1, &PendingContext{ImageSale: &ImageSaleContext{ProductName: "fone"}})
	store.Clear(1)
	store.Clear(1)
	if store.Get(1) != nil {
		t.Fatal("contexto devia ter sumido após Clear")
	}
}

func TestContextStoreSetNilClears(t *testing.T) {
	store, _ := newStoreWithClock(5 * time.Minute)
	store.Set(1, &PendingContext{ImageSale: &ImageSaleContext{ProductName: "fone"}})
	store.Set(1, nil)
	if store.Get(1) != nil {
		t.Fatal("Set(nil) devia limpar o contexto")
	}
}

func TestContextStoreCrossUserIsolation(t *testing.T) {
	store, _ := newStoreWithClock(5 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			store.Set(userID, &PendingContext{ImageSale: &ImageSaleContext{
				Product: &entity.Product{ID: "p"},
			}})
			if store.Get(userID) == nil {
				t.Errorf("contexto sumiu para user %d", userID)
			}
		}(int64(i))
	}
	wg.Wait()

	store.Clear(7)
	if store.Get(7) != nil {
		t.Error("Clear(7) não limpou")
	}
	if store.Get(8) == nil {
		t.Error("Clear(7) afetou outro usuário")
	}
}
