package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

var affirmativeKeywords = []string{
	"sim", "s", "ss", "isso", "confirmo", "confirma", "pode ser",
	"ok", "okay", "beleza", "blz", "certo", "fechado", "yes", "👍",
}

var negativeKeywords = []string{
	"não", "nao", "n", "cancela", "cancelar", "deixa", "esquece",
	"nada", "no",
}

// ImageSaleEngine drives the sale-confirmation state machine. The stored
// ImageSaleContext is the AwaitingDecision state; no goroutine ever blocks on
// the user.
type ImageSaleEngine struct {
	repo  repository.LedgerRepository
	store ContextStore
	sales *SaleRegistrationService
}

func NewImageSaleEngine(repo repository.LedgerRepository, store ContextStore, sales *SaleRegistrationService) *ImageSaleEngine {
	return &ImageSaleEngine{repo: repo, store: store, sales: sales}
}

// HandleRecognition enters the Identified state from an externally-supplied
// recognition result and prompts the user for a decision.
func (e *ImageSaleEngine) HandleRecognition(ctx context.Context, userID int64, rec entity.ImageRecognition) (string, error) {
	var product *entity.Product
	if rec.ProductID != "" {
		p, err := e.repo.GetProduct(ctx, userID, rec.ProductID)
		if err != nil {
			return "", fmt.Errorf("resolve product %s: %w", rec.ProductID, err)
		}
		product = p
	}
	if product == nil && rec.ProductName != "" {
		catalog, err := e.repo.GetCatalog(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("load catalog: %w", err)
		}
		product = MatchProduct(catalog, rec.ProductName)
	}

	return e.beginConfirmation(userID, product, rec.ProductName, rec.Confidence), nil
}

// BeginConfirmation arms a price confirmation for an already-resolved product
// (suggestion picks and keyword sales without a price reuse this flow).
func (e *ImageSaleEngine) BeginConfirmation(userID int64, product *entity.Product) string {
	name := ""
	if product != nil {
		name = product.Name
	}
	return e.beginConfirmation(userID, product, name, 1)
}

func (e *ImageSaleEngine) beginConfirmation(userID int64, product *entity.Product, name string, confidence float64) string {
	isc := &ImageSaleContext{
		Product:     product,
		ProductName: name,
		Confidence:  confidence,
	}
	if product != nil {
		isc.ProductName = product.Name
		if product.HasSalePrice() {
			isc.CandidatePrice = *product.SalePrice
		}
	}
	e.store.Set(userID, &PendingContext{ImageSale: isc})

	switch {
	case product != nil && isc.CandidatePrice > 0:
		return fmt.Sprintf("📸 Identifiquei *%s* (%.0f%% de confiança).\nPreço de catálogo: %s.\nConfirma a venda por esse valor? Responda *sim*, mande outro valor ou *não* para cancelar.",
			product.Name, confidence*100, FormatBRL(isc.CandidatePrice))
	case product != nil:
		return fmt.Sprintf("📸 Identifiquei *%s*, mas ele não tem preço cadastrado. Por quanto você vendeu?",
			product.Name)
	default:
		return fmt.Sprintf("📸 Parece ser *%s*, mas não achei esse produto no seu catálogo. Por quanto você vendeu?",
			name)
	}
}

// HandleReply interprets the next utterance while AwaitingDecision.
// handled=false means there is no pending confirmation and the dispatcher
// should route the message elsewhere.
func (e *ImageSaleEngine) HandleReply(ctx context.Context, userID int64, text string) (string, bool, error) {
	pc := e.store.Get(userID)
	if pc == nil || pc.ImageSale == nil {
		return "", false, nil
	}
	isc := pc.ImageSale

	switch classifyDecision(text) {
	case decisionAffirmative:
		if isc.CandidatePrice <= 0 {
			// Nothing to confirm against; keep asking for the value.
			return "Esse produto não tem preço cadastrado. Me diga o valor da venda, por exemplo: *85,50*.", true, nil
		}
		return e.register(ctx, userID, isc, isc.CandidatePrice)

	case decisionPrice:
		price, _ := ParsePriceExpression(strings.TrimSpace(text))
		return e.register(ctx, userID, isc, price)

	case decisionNegative:
		e.store.Clear(userID)
		return "❌ Venda cancelada. Nada foi registrado.", true, nil

	default:
		// Context stays untouched: its original TTL keeps counting.
		return "Não entendi. Responda *sim* para confirmar, mande o valor da venda (ex.: *85,50*) ou *não* para cancelar.", true, nil
	}
}

func (e *ImageSaleEngine) register(ctx context.Context, userID int64, isc *ImageSaleContext, price float64) (string, bool, error) {
	record, err := e.sales.RegisterSale(ctx, userID, SaleInput{
		Product:     isc.Product,
		ProductName: isc.ProductName,
		Price:       price,
	})
	if err != nil {
		// Context stays armed on every failure so the user can retry within
		// the same TTL window.
		if errors.Is(err, ErrInvalidPrice) {
			return "O valor precisa ser maior que zero. Me diga o preço da venda, por exemplo: *85,50*.", true, nil
		}
		if errors.Is(err, ErrMissingProduct) {
			return "Não sei qual produto foi vendido. Me diga o nome dele antes de registrar.", true, nil
		}
		return "", true, err
	}

	e.store.Clear(userID)
	return formatSaleConfirmation(record), true, nil
}

func formatSaleConfirmation(r *entity.SaleRecord) string {
	margin := fmt.Sprintf("%.1f%%", r.Margin)
	if r.EstimatedMargin {
		margin += " (estimada)"
	}
	return fmt.Sprintf("✅ Venda registrada!\n%s por %s\nLucro: %s • Margem: %s",
		r.ProductName, FormatBRL(r.UnitPrice), FormatBRL(r.Profit), margin)
}

type decision int

const (
	decisionUnknown decision = iota
	decisionAffirmative
	decisionPrice
	decisionNegative
)

func classifyDecision(text string) decision {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.Trim(lower, ".,!")
	if lower == "" {
		return decisionUnknown
	}

	for _, kw := range negativeKeywords {
		if lower == kw {
			return decisionNegative
		}
	}
	for _, kw := range affirmativeKeywords {
		if lower == kw {
			return decisionAffirmative
		}
	}
	if _, ok := ParsePriceExpression(lower); ok {
		return decisionPrice
	}
	return decisionUnknown
}
