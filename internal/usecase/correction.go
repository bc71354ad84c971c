package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

// correctionKeywords flag an utterance as a category correction when a
// CorrectionContext is active.
var correctionKeywords = []string{
	"foi",
	"era",
	"correto",
	"corrigir",
	"corrige",
	"mudar",
	"muda",
	"não é",
	"nao é",
	"nao e",
	"na verdade",
	"categoria errada",
	"errado",
	"errada",
}

// categoryPatterns extract the category token, tried in order.
var categoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfoi\s+(?:de\s+|em\s+|no\s+|na\s+)?([\p{L}0-9]+)`),
	regexp.MustCompile(`(?i)\bera\s+(?:de\s+|em\s+|no\s+|na\s+)?([\p{L}0-9]+)`),
	regexp.MustCompile(`(?i)\bcategoria\s+(?:é\s+|e\s+|de\s+)?([\p{L}0-9]+)`),
	regexp.MustCompile(`(?i)^é\s+([\p{L}0-9]+)$`),
	regexp.MustCompile(`(?i)^([\p{L}0-9]+)$`),
}

// CorrectionResolver turns "foi transporte" style replies into category
// updates on the transaction referenced by the active CorrectionContext.
type CorrectionResolver struct {
	repo  repository.LedgerRepository
	store ContextStore
}

func NewCorrectionResolver(repo repository.LedgerRepository, store ContextStore) *CorrectionResolver {
	return &CorrectionResolver{repo: repo, store: store}
}

// IsCorrection decides whether the utterance corrects the last transaction.
// Without an active CorrectionContext the answer is always no, regardless of
// wording.
func (r *CorrectionResolver) IsCorrection(userID int64, text string) bool {
	pc := r.store.Get(userID)
	if pc == nil || pc.Correction == nil {
		return false
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, kw := range correctionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	// A bare category word counts when the original transaction carried no
	// amount: "transporte" alone is unambiguous there.
	if len(strings.Fields(lower)) == 1 && KnownCategoryToken(lower) && pc.Correction.Amount == 0 {
		return true
	}
	return false
}

// Resolve extracts the intended category, replays the update against the
// repository and clears the context. When no category token can be extracted
// the context is left intact so the user can retry within the TTL.
func (r *CorrectionResolver) Resolve(ctx context.Context, userID int64, text string) (string, error) {
	pc := r.store.Get(userID)
	if pc == nil || pc.Correction == nil {
		return "", nil
	}

	token := extractCategoryToken(text)
	if token == "" {
		return "Não entendi a correção. Me diga a categoria certa, por exemplo: \"foi transporte\".", nil
	}

	category := CanonicalCategory(token)
	updated, err := r.repo.UpdateLedgerEntry(ctx, userID, pc.Correction.EntryID, entity.LedgerUpdate{
		Category: &category,
	})
	if err != nil {
		return "", fmt.Errorf("update entry %s: %w", pc.Correction.EntryID, err)
	}

	r.store.Clear(userID)
	return fmt.Sprintf("✏️ Corrigido! Categoria alterada de *%s* para *%s*.",
		pc.Correction.PriorCategory, updated.Category), nil
}

func extractCategoryToken(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, re := range categoryPatterns {
		if m := re.FindStringSubmatch(trimmed); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}
