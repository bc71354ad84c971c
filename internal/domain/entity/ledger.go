package entity

import "time"

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	KindRevenue EntryKind = "revenue"
	KindExpense EntryKind = "expense"
	KindDebt    EntryKind = "debt"
	KindGoal    EntryKind = "goal"
)

// LedgerEntry is a single financial transaction row.
type LedgerEntry struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Kind        EntryKind `json:"kind"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerUpdate carries the mutable fields of an entry. Nil means "keep".
type LedgerUpdate struct {
	Amount      *float64
	Category    *string
	Description *string
}

// SaleDetail is the detailed sale row written alongside a revenue entry.
// It is best-effort: the revenue entry stays authoritative if this write fails.
type SaleDetail struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	LedgerEntryID string    `json:"ledger_entry_id"`
	ProductID     *string   `json:"product_id,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	BuyerName     *string   `json:"buyer_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaleRecord is the outcome of a confirmed sale. Created once, immutable.
type SaleRecord struct {
	Entry       LedgerEntry `json:"entry"`
	ProductID   *string     `json:"product_id,omitempty"`
	ProductName string      `json:"product_name"`
	UnitPrice   float64     `json:"unit_price"`
	BuyerName   *string     `json:"buyer_name,omitempty"`
	Cost        float64     `json:"cost"`
	Profit      float64     `json:"profit"`
	Margin      float64     `json:"margin"`
	// EstimatedMargin marks the 30% fallback used when no cost price is known.
	EstimatedMargin bool      `json:"estimated_margin"`
	RegisteredAt    time.Time `json:"registered_at"`
}
