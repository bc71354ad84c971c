package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

func armCorrection(store ContextStore, userID int64, entryID, category string, amount float64) {
	store.Set(userID, &PendingContext{Correction: &CorrectionContext{
		EntryID:       entryID,
		PriorCategory: category,
		Amount:        amount,
		Kind:          entity.KindExpense,
	}})
}

func TestIsCorrection(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		withCtx    bool
		zeroAmount bool
		want       bool
	}{
		{"keyword with context", "na verdade foi transporte", true, false, true},
		{"era keyword", "era lazer", true, false, true},
		{"negation keyword", "não é alimentação", true, false, true},
		{"no context never corrects", "foi transporte", false, false, false},
		{"bare category with zero amount", "transporte", true, true, true},
		{"bare category with amount set", "transporte", true, false, false},
		{"bare unknown word", "banana", true, true, false},
		{"unrelated text", "vendi um fone", true, false, false},
		{"empty text", "   ", true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeLedgerRepo()
			store := NewMemoryContextStore(0)
			r := NewCorrectionResolver(repo, store)

			if tt.withCtx {
				amount := 42.0
				if tt.zeroAmount {
					amount = 0
				}
				armCorrection(store, 1, "entry-1", "outros", amount)
			}

			if got := r.IsCorrection(1, tt.text); got != tt.want {
				t.Errorf("IsCorrection(%q) = %v, esperava %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestResolveCorrection(t *testing.T) {
	repo := newFakeLedgerRepo()
	store := NewMemoryContextStore(0)
	r := NewCorrectionResolver(repo, store)

	entry, _ := repo.CreateLedgerEntry(context.Background(), entity.LedgerEntry{
		UserID:   1,
		Kind:     entity.KindExpense,
		Category: "outros",
	})
	armCorrection(store, 1, entry.ID, "outros", 0)

	reply, err := r.Resolve(context.Background(), 1, "foi transporte")
	if err != nil {
		t.Fatalf("Resolve falhou: %v", err)
	}
	if !strings.Contains(reply, "outros") || !strings.Contains(reply, "transporte") {
		t.Errorf("resposta devia citar as duas categorias: %q", reply)
	}

	if got := repo.entries[0].Category; got != "transporte" {
		t.Errorf("categoria não atualizada: %q", got)
	}
	if store.Get(1) != nil {
		t.Error("contexto devia ter sido limpo após a correção")
	}
}

func TestResolveCorrectionKeepsContextWhenUnclear(t *testing.T) {
	repo := newFakeLedgerRepo()
	store := NewMemoryContextStore(0)
	r := NewCorrectionResolver(repo, store)

	armCorrection(store, 1, "entry-1", "outros", 0)

	reply, err := r.Resolve(context.Background(), 1, "mudar para outra coisa")
	if err != nil {
		t.Fatalf("Resolve falhou: %v", err)
	}
	if reply == "" || !strings.Contains(strings.ToLower(reply), "categoria") {
		t.Errorf("esperava pedido de esclarecimento, veio %q", reply)
	}
	if store.Get(1) == nil {
		t.Error("contexto não devia expirar quando a correção é ambígua")
	}
}

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"uber", "transporte"},
		{"Comida", "alimentação"},
		{"food", "alimentação"},
		{"remedio", "saúde"},
		{"aluguel", "moradia"},
		{"netflix", "lazer"},
		{"curso", "educação"},
		{"venda", "vendas"},
		{"alienígena", "outros"},
		{"", "outros"},
		{"transporte.", "transporte"},
	}
	for _, tt := range tests {
		if got := CanonicalCategory(tt.in); got != tt.want {
			t.Errorf("CanonicalCategory(%q) = %q, esperava %q", tt.in, got, tt.want)
		}
	}
}
