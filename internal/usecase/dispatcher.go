package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
)

// CatalogSyncer pushes the catalog to an external destination. Wired in by
// the delivery layer; nil means the feature is not configured.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, userID int64, products []entity.Product) error
}

var (
	createProductKeywords = []string{"cadastrar produto", "criar produto", "adicionar produto", "novo produto"}
	syncKeywords          = []string{"sincronizar", "sync"}
	saleKeywords          = []string{"vendi ", "venda de ", "registrar venda"}
	stockKeywords         = []string{"estoque"}
	productQueryKeywords  = []string{"meus produtos", "produtos", "catálogo", "catalogo", "quanto custa", "preço de", "preco de"}
	reportKeywords        = []string{"relatório de vendas", "relatorio de vendas", "quanto vendi", "vendas do dia", "vendas de hoje", "vendas do mês", "vendas do mes", "resumo de vendas"}
)

var (
	createProductRegex = regexp.MustCompile(`(?i)(?:cadastrar|criar|adicionar|novo)\s+produto:?\s+(.+?)(?:\s+(?:por\s+)?r?\$?\s*([0-9]+(?:[.,][0-9]{1,2})?))?$`)
	saleQueryRegex     = regexp.MustCompile(`(?i)\bvend(?:i|a de)\s+(?:um\s+|uma\s+|o\s+|a\s+)?(.+)$`)
	salePriceRegex     = regexp.MustCompile(`(?i)\b(?:por|a)\s+(?:r\$\s*)?([0-9]+(?:[.,][0-9]{1,2})?)\s*(?:reais|real|contos?)?\s*$`)
)

// SalesDispatcher is the ordered intent classifier: it decides which handler
// owns each sales-domain turn. handled=false hands the utterance back to the
// caller (it is not a sales message).
type SalesDispatcher struct {
	repo        repository.LedgerRepository
	store       ContextStore
	engine      *ImageSaleEngine
	corrections *CorrectionResolver
	sales       *SaleRegistrationService
	syncer      CatalogSyncer

	suggestionMu    sync.RWMutex
	lastSuggestions map[int64][]entity.Product

	now func() time.Time
}

func NewSalesDispatcher(
	repo repository.LedgerRepository,
	store ContextStore,
	engine *ImageSaleEngine,
	corrections *CorrectionResolver,
	sales *SaleRegistrationService,
	syncer CatalogSyncer,
) *SalesDispatcher {
	return &SalesDispatcher{
		repo:            repo,
		store:           store,
		engine:          engine,
		corrections:     corrections,
		sales:           sales,
		syncer:          syncer,
		lastSuggestions: make(map[int64][]entity.Product),
		now:             time.Now,
	}
}

// Handle routes one utterance. Priority order is fixed; first match wins.
func (d *SalesDispatcher) Handle(ctx context.Context, userID int64, text string, hint *entity.ParsedIntent) (string, bool, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	// 1. A pending image-sale confirmation owns the whole turn.
	if reply, handled, err := d.engine.HandleReply(ctx, userID, text); handled || err != nil {
		if err != nil {
			log.Printf("image sale reply failed (user=%d): %v", userID, err)
			return retryReply(), true, nil
		}
		return reply, true, nil
	}

	// 2. Correction of the last recorded transaction.
	if d.corrections.IsCorrection(userID, text) {
		reply, err := d.corrections.Resolve(ctx, userID, text)
		if err != nil {
			log.Printf("correction failed (user=%d): %v", userID, err)
			return retryReply(), true, nil
		}
		return reply, true, nil
	}

	// 3. Numeric pick from the last suggestion list.
	if idx, ok := parseSelectionIndex(lower); ok {
		if reply, handled := d.handleSuggestionPick(userID, idx); handled {
			return reply, true, nil
		}
	}

	// 4. Catalog mutation.
	if containsAny(lower, createProductKeywords) {
		return d.handleCreateProduct(ctx, userID, text)
	}

	// 5. External catalog sync.
	if containsAny(lower, syncKeywords) {
		return d.handleSync(ctx, userID)
	}

	// 6. New sale. Report phrases ("quanto vendi hoje") also contain sale
	// verbs, so they are excluded here instead of reordering the classifier.
	isReport := containsAny(lower, reportKeywords)
	if (containsAny(lower, saleKeywords) && !isReport) || (hint != nil && hint.Intent == "sale") {
		return d.handleSale(ctx, userID, text, hint)
	}

	// 7. Read-only reporting paths.
	if isReport {
		return d.handleSalesReport(ctx, userID, lower)
	}
	if containsAny(lower, stockKeywords) {
		return d.handleStockQuery(ctx, userID)
	}
	if containsAny(lower, productQueryKeywords) {
		return d.handleProductQuery(ctx, userID)
	}

	// 8. Not a sales-domain utterance.
	return "", false, nil
}

func (d *SalesDispatcher) handleSuggestionPick(userID int64, idx int) (string, bool) {
	d.suggestionMu.Lock()
	products := d.lastSuggestions[userID]
	// An out-of-range index must leave the list intact for a valid retry.
	if len(products) == 0 || idx > len(products) {
		d.suggestionMu.Unlock()
		return "", false
	}
	delete(d.lastSuggestions, userID)
	d.suggestionMu.Unlock()

	picked := products[idx-1]
	return d.engine.BeginConfirmation(userID, &picked), true
}

func (d *SalesDispatcher) handleCreateProduct(ctx context.Context, userID int64, text string) (string, bool, error) {
	m := createProductRegex.FindStringSubmatch(strings.TrimSpace(text))
	if len(m) < 2 || strings.TrimSpace(m[1]) == "" {
		return "Para cadastrar, me diga o nome (e o preço, se quiser): *cadastrar produto Fone Bluetooth 80*.", true, nil
	}

	product := entity.Product{
		ID:     newProductID(),
		UserID: userID,
		Name:   strings.TrimSpace(m[1]),
	}
	if len(m) == 3 && m[2] != "" {
		if price, ok := ParsePriceExpression(m[2]); ok {
			product.SalePrice = &price
		}
	}

	if err := d.repo.CreateProduct(ctx, product); err != nil {
		log.Printf("create product failed (user=%d): %v", userID, err)
		return retryReply(), true, nil
	}

	if product.SalePrice != nil {
		return fmt.Sprintf("📦 Produto *%s* cadastrado por %s.", product.Name, FormatBRL(*product.SalePrice)), true, nil
	}
	return fmt.Sprintf("📦 Produto *%s* cadastrado (sem preço).", product.Name), true, nil
}

func (d *SalesDispatcher) handleSync(ctx context.Context, userID int64) (string, bool, error) {
	if d.syncer == nil {
		return "A sincronização de catálogo não está configurada.", true, nil
	}
	catalog, err := d.repo.GetCatalog(ctx, userID)
	if err != nil {
		log.Printf("sync: load catalog failed (user=%d): %v", userID, err)
		return retryReply(), true, nil
	}
	if err := d.syncer.SyncCatalog(ctx, userID, catalog); err != nil {
		log.Printf("catalog sync failed (user=%d): %v", userID, err)
		return "⚠️ A sincronização falhou. Tente novamente mais tarde.", true, nil
	}
	return fmt.Sprintf("🔄 Catálogo sincronizado: %d produtos.", len(catalog)), true, nil
}

func (d *SalesDispatcher) handleSale(ctx context.Context, userID int64, text string, hint *entity.ParsedIntent) (string, bool, error) {
	query, price := extractSaleQuery(text, hint)
	if query == "" {
		return "Qual produto você vendeu? Exemplo: *vendi fone bluetooth por 80*.", true, nil
	}

	catalog, err := d.repo.GetCatalog(ctx, userID)
	if err != nil {
		log.Printf("sale: load catalog failed (user=%d): %v", userID, err)
		return retryReply(), true, nil
	}

	product := MatchProduct(catalog, query)
	var buyer *string
	if hint != nil && hint.BuyerName != "" {
		b := hint.BuyerName
		buyer = &b
	}

	// Price known up front: register straight away, overriding the catalog.
	if price > 0 {
		record, err := d.sales.RegisterSale(ctx, userID, SaleInput{
			Product:     product,
			ProductName: query,
			Price:       price,
			BuyerName:   buyer,
		})
		if err != nil {
			log.Printf("register sale failed (user=%d): %v", userID, err)
			return retryReply(), true, nil
		}
		return formatSaleConfirmation(record), true, nil
	}

	if product != nil {
		return d.engine.BeginConfirmation(userID, product), true, nil
	}

	suggestions := SuggestProducts(catalog, query)
	if len(suggestions) == 0 {
		return fmt.Sprintf("Não achei *%s* no seu catálogo. Você pode cadastrar com *cadastrar produto %s* ou me mandar o valor da venda.", query, query), true, nil
	}

	picks := make([]entity.Product, 0, len(suggestions))
	var b strings.Builder
	fmt.Fprintf(&b, "Não achei *%s*, mas talvez seja um destes:\n", query)
	for i, s := range suggestions {
		picks = append(picks, s.Product)
		fmt.Fprintf(&b, "%d. %s", i+1, s.Product.Name)
		if s.Product.HasSalePrice() {
			fmt.Fprintf(&b, " — %s", FormatBRL(*s.Product.SalePrice))
		}
		fmt.Fprintf(&b, " (%d%%)\n", s.Confidence)
	}
	b.WriteString("Responda com o número do produto.")

	d.suggestionMu.Lock()
	d.lastSuggestions[userID] = picks
	d.suggestionMu.Unlock()

	return b.String(), true, nil
}

func (d *SalesDispatcher) handleSalesReport(ctx context.Context, userID int64, lower string) (string, bool, error) {
	now := d.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	label := "do mês"
	if strings.Contains(lower, "dia") || strings.Contains(lower, "hoje") {
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		label = "de hoje"
	}

	entries, err := d.repo.ListEntries(ctx, userID, entity.KindRevenue, since)
	if err != nil {
		log.Printf("sales report failed (user=%d): %v", userID, err)
		return retryReply(), true, nil
	}

	count := 0
	total := 0.0
	for _, e := range entries {
		if e.Category != constants.SalesCategory {
			continue
		}
		count++
		total += e.Amount
	}
	if count == 0 {
		return fmt.Sprintf("Nenhuma venda registrada %s ainda.", label), true, nil
	}
	return fmt.Sprintf("📊 Vendas %s: %d venda(s), total de %s.", label, count, FormatBRL(total)), true, nil
}

func (d *SalesDispatcher) handleStockQuery(ctx context.Context, userID int64) (string, bool, error) {
	catalog, err := d.repo.GetCatalog(ctx, userID)
	if err != nil {
		log.Printf("stock query failed (user=%d): %v", userID, err)
		return retryReply(), true, nil
	}

	var b strings.Builder
	b.WriteString("📦 Estoque:\n")
	listed := 0
	for _, p := range catalog {
		if p.Stock == nil {
			continue
		}
		fmt.Fprintf(&b, "• %s: %d unidade(s)\n", p.Name, *p.Stock)
		listed++
	}
	if listed == 0 {
		return "Nenhum produto com controle de estoque. Importe o catálogo com a coluna *Estoque* para acompanhar.", true, nil
	}
	return strings.TrimRight(b.String(), "\n"), true, nil
}

func (d *SalesDispatcher) handleProductQuery(ctx context.Context, userID int64) (string, bool, error) {
	catalog, err := d.repo.GetCatalog(ctx, userID)
	if err != nil {
		log.Printf("product query failed (user=%d): %v", userID, err)
		return retryReply(), true, nil
	}
	if len(catalog) == 0 {
		return "Seu catálogo está vazio. Cadastre com *cadastrar produto NOME PREÇO* ou importe uma planilha.", true, nil
	}

	var b strings.Builder
	b.WriteString("🛍️ Seus produtos:\n")
	for _, p := range catalog {
		fmt.Fprintf(&b, "• %s", p.Name)
		if p.HasSalePrice() {
			fmt.Fprintf(&b, " — %s", FormatBRL(*p.SalePrice))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), true, nil
}

// extractSaleQuery pulls the product reference and an optional price out of
// the utterance, preferring the AI hint when it carries anything.
func extractSaleQuery(text string, hint *entity.ParsedIntent) (string, float64) {
	price := 0.0
	if hint != nil && hint.Amount > 0 {
		price = hint.Amount
	}

	rest := ""
	if m := saleQueryRegex.FindStringSubmatch(text); len(m) == 2 {
		rest = strings.TrimSpace(m[1])
	}
	if pm := salePriceRegex.FindStringSubmatch(rest); len(pm) == 2 {
		if p, ok := ParsePriceExpression(pm[1]); ok && price == 0 {
			price = p
		}
		rest = strings.TrimSpace(salePriceRegex.ReplaceAllString(rest, ""))
	}

	query := rest
	if hint != nil && hint.ProductName != "" {
		query = hint.ProductName
	}
	return strings.TrimSpace(query), price
}

func parseSelectionIndex(text string) (int, bool) {
	trim := strings.TrimSpace(text)
	if trim == "" || len(trim) > 2 {
		return 0, false
	}
	n, err := strconv.Atoi(trim)
	if err != nil || n < 1 || n > constants.MaxSuggestions {
		return 0, false
	}
	return n, true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func newProductID() string {
	return uuid.New().String()
}

func retryReply() string {
	return "⚠️ Não consegui registrar agora. Tente novamente em instantes."
}
