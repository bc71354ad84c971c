package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// CorrectionContext references a just-recorded transaction the user can still
// re-categorize.
type CorrectionContext struct {
	EntryID       string
	PriorCategory string
	Amount        float64
	Kind          entity.EntryKind
}

// ImageSaleContext holds a recognized product awaiting the user's decision.
// Product is nil when recognition found nothing in the catalog.
type ImageSaleContext struct {
	Product        *entity.Product
	ProductName    string
	CandidatePrice float64
	Confidence     float64
}

// PendingContext is the single piece of per-user transient state. Exactly one
// of Correction / ImageSale is set.
type PendingContext struct {
	Correction *CorrectionContext
	ImageSale  *ImageSaleContext
	CreatedAt  time.Time
}

// ContextStore keeps at most one PendingContext per user, expiring after the
// TTL. Injected so tests can swap it and production can move it off-process
// without touching the state machines.
type ContextStore interface {
	Set(userID int64, pc *PendingContext)
	Get(userID int64) *PendingContext
	Clear(userID int64)
	Sweep()
}

type pendingEntry struct {
	ctx *PendingContext
	seq uint64
}

// MemoryContextStore is the process-wide in-memory implementation. Expiry is
// guaranteed two independent ways: a per-entry timer and a lazy check on Get,
// so neither sparse reads nor a suspended timer can leak stale contexts.
type MemoryContextStore struct {
	mu      sync.RWMutex
	entries map[int64]*pendingEntry
	timers  map[int64]*time.Timer
	ttl     time.Duration
	seq     uint64
	now     func() time.Time
}

// NewMemoryContextStore builds a store with the given TTL (the default
// PendingContextTTL when ttl <= 0).
func NewMemoryContextStore(ttl time.Duration) *MemoryContextStore {
	if ttl <= 0 {
		ttl = constants.PendingContextTTL
	}
	return &MemoryContextStore{
		entries: make(map[int64]*pendingEntry),
		timers:  make(map[int64]*time.Timer),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set overwrites any existing context for the user. The previous expiry timer
// is stopped and its sequence number invalidated in the same critical section,
// so a stale timer can never evict the newer context.
func (s *MemoryContextStore) Set(userID int64, pc *PendingContext) {
	if pc == nil {
		s.Clear(userID)
		return
	}
	if pc.CreatedAt.IsZero() {
		pc.CreatedAt = s.now()
	}

	s.mu.Lock()
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
	s.seq++
	seq := s.seq
	s.entries[userID] = &pendingEntry{ctx: pc, seq: seq}
	s.timers[userID] = time.AfterFunc(s.ttl, func() {
		s.expire(userID, seq)
	})
	s.mu.Unlock()
}

// Get returns the live context or nil. Expired entries are evicted here even
// if their timer never fired.
func (s *MemoryContextStore) Get(userID int64) *PendingContext {
	s.mu.RLock()
	entry, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if s.now().Sub(entry.ctx.CreatedAt) > s.ttl {
		s.expire(userID, entry.seq)
		return nil
	}
	return entry.ctx
}

// Clear drops the user's context and its timer. Clearing an absent context is
// a no-op.
func (s *MemoryContextStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
}

// Sweep evicts every expired entry. Run periodically as a third safety net
// and called directly by tests instead of waiting on real timers.
func (s *MemoryContextStore) Sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, entry := range s.entries {
		if now.Sub(entry.ctx.CreatedAt) > s.ttl {
			delete(s.entries, userID)
			if t, ok := s.timers[userID]; ok {
				t.Stop()
				delete(s.timers, userID)
			}
		}
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (s *MemoryContextStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.ContextSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// expire removes the entry only if it is still the one the caller saw.
// Sequence comparison keeps a late timer from evicting a replacement context.
func (s *MemoryContextStore) expire(userID int64, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[userID]
	if !ok || entry.seq != seq {
		return
	}
	if s.now().Sub(entry.ctx.CreatedAt) <= s.ttl {
		// Fired early relative to the logical clock; the lazy check or the
		// sweeper will catch it when it actually expires.
		return
	}
	delete(s.entries, userID)
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
}
