package telegram

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/usecase"
)

var (
	expenseKeywords = []string{"gastei", "paguei", "comprei", "gasto de", "despesa"}
	revenueKeywords = []string{"recebi", "entrou", "ganhei", "receita de", "me pagaram", "me pagou"}
	debtKeywords    = []string{"devo", "fiquei devendo", "dívida", "divida", "emprestei", "peguei emprestado", "fiado"}
	goalKeywords    = []string{"meta de", "quero juntar", "quero guardar", "economizar"}
)

// amountRegex finds the first money-looking number inside an utterance
// ("gastei r$ 50,00 no mercado" → 50.00).
var amountRegex = regexp.MustCompile(`(?i)(?:r\$\s*)?([0-9]+(?:[.,][0-9]{1,2})?)`)

// processText runs one text turn: AI pre-parse (best effort), the sales
// dispatcher, then the general bookkeeping fallback.
func (h *Handler) processText(ctx context.Context, req *messageRequest) {
	hint := h.parseHint(ctx, req.text)

	reply, handled, err := h.dispatcher.Handle(ctx, req.userID, req.text, hint)
	if err != nil {
		log.Printf("dispatcher failed (user=%d): %v", req.userID, err)
		h.sendMessage(req.chatID, "⚠️ Não consegui processar agora. Tente novamente em instantes.")
		return
	}
	if handled {
		h.sendMessageMarkdown(req.chatID, reply)
		return
	}

	h.sendMessageMarkdown(req.chatID, h.handleBookkeeping(ctx, req.userID, req.text, hint))
}

// parseHint asks the AI for a structured guess. Any failure degrades to nil:
// the keyword paths keep the bot working without the model.
func (h *Handler) parseHint(ctx context.Context, text string) *entity.ParsedIntent {
	if h.ai == nil {
		return nil
	}
	hint, err := h.ai.ParseMessage(ctx, text)
	if err != nil {
		log.Printf("ai parse failed, falling back to keywords: %v", err)
		return nil
	}
	return hint
}

// handleBookkeeping records a plain expense/revenue/debt/goal entry and arms
// a correction window so "na verdade foi transporte" can fix the category.
func (h *Handler) handleBookkeeping(ctx context.Context, userID int64, text string, hint *entity.ParsedIntent) string {
	kind, ok := classifyEntryKind(text, hint)
	if !ok {
		return helpReply()
	}

	amount := extractAmount(text, hint)
	if amount <= 0 {
		return fmt.Sprintf("Entendi que é %s, mas não achei o valor. Me manda de novo com o número, ex.: *gastei 50 no mercado*.", kindLabel(kind))
	}

	category := pickCategory(text, hint)
	description := strings.TrimSpace(text)
	if hint != nil && hint.Description != "" {
		description = hint.Description
	}

	entry, err := h.repo.CreateLedgerEntry(ctx, entity.LedgerEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        time.Now(),
	})
	if err != nil {
		log.Printf("create entry failed (user=%d): %v", userID, err)
		return "⚠️ Não consegui registrar agora. Tente novamente em instantes."
	}

	h.store.Set(userID, &usecase.PendingContext{Correction: &usecase.CorrectionContext{
		EntryID:       entry.ID,
		PriorCategory: entry.Category,
		Amount:        entry.Amount,
		Kind:          entry.Kind,
	}})

	return fmt.Sprintf("📝 Anotado! %s de %s em *%s*.\nSe a categoria estiver errada, me corrige: ex. \"foi transporte\".",
		kindLabel(kind), usecase.FormatBRL(entry.Amount), entry.Category)
}

// classifyEntryKind maps the utterance to an entry kind, preferring the AI
// hint and falling back to keyword heuristics.
func classifyEntryKind(text string, hint *entity.ParsedIntent) (entity.EntryKind, bool) {
	if hint != nil {
		switch hint.Intent {
		case "expense":
			return entity.KindExpense, true
		case "revenue":
			return entity.KindRevenue, true
		case "debt":
			return entity.KindDebt, true
		case "goal":
			return entity.KindGoal, true
		}
	}

	lower := strings.ToLower(text)
	switch {
	case containsAnyKeyword(lower, expenseKeywords):
		return entity.KindExpense, true
	case containsAnyKeyword(lower, revenueKeywords):
		return entity.KindRevenue, true
	case containsAnyKeyword(lower, debtKeywords):
		return entity.KindDebt, true
	case containsAnyKeyword(lower, goalKeywords):
		return entity.KindGoal, true
	}
	return "", false
}

func extractAmount(text string, hint *entity.ParsedIntent) float64 {
	if hint != nil && hint.Amount > 0 {
		return hint.Amount
	}
	m := amountRegex.FindStringSubmatch(text)
	if len(m) != 2 {
		return 0
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return val
}

// pickCategory prefers the AI's category, then any known category token in
// the utterance, then the catch-all.
func pickCategory(text string, hint *entity.ParsedIntent) string {
	if hint != nil && hint.Category != "" {
		return usecase.CanonicalCategory(hint.Category)
	}
	for _, token := range strings.Fields(strings.ToLower(text)) {
		if usecase.KnownCategoryToken(token) {
			return usecase.CanonicalCategory(token)
		}
	}
	return usecase.CanonicalCategory("")
}

func kindLabel(kind entity.EntryKind) string {
	switch kind {
	case entity.KindExpense:
		return "Gasto"
	case entity.KindRevenue:
		return "Receita"
	case entity.KindDebt:
		return "Dívida"
	case entity.KindGoal:
		return "Meta"
	default:
		return "Registro"
	}
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func helpReply() string {
	return strings.Join([]string{
		"Não entendi. 🤔 Alguns exemplos do que eu sei anotar:",
		"• *gastei 50 no mercado* — registra um gasto",
		"• *vendi fone bluetooth por 80* — registra uma venda",
		"• *cadastrar produto Fone Bluetooth 80* — adiciona ao catálogo",
		"• *quanto vendi hoje?* — resumo de vendas",
		"Também aceito foto de produto e planilha de catálogo. Manda /ajuda para a lista completa.",
	}, "\n")
}
