package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// Recognized header aliases, lowercase. Sellers send spreadsheets exported
// from all kinds of tools, so the matching is loose.
var (
	nameHeaders     = []string{"nome", "produto", "item", "descrição", "descricao", "name", "product"}
	priceHeaders    = []string{"preço", "preco", "preço de venda", "preco de venda", "valor", "price"}
	costHeaders     = []string{"custo", "preço de custo", "preco de custo", "cost"}
	stockHeaders    = []string{"estoque", "qtd", "quantidade", "stock"}
	categoryHeaders = []string{"categoria", "category"}
)

// ParseCatalogXLSX reads a product spreadsheet into catalog entries for one
// user. The first sheet is used; the first non-empty row must be the header
// and must contain at least a product-name column.
func ParseCatalogXLSX(data []byte, userID int64) ([]entity.Product, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("planilha sem abas")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	headerIdx, cols := findHeader(rows)
	if cols.name < 0 {
		return nil, fmt.Errorf("planilha sem coluna de produto (esperado cabeçalho como *Nome* ou *Produto*)")
	}

	var products []entity.Product
	for _, row := range rows[headerIdx+1:] {
		name := cellAt(row, cols.name)
		if name == "" {
			continue
		}
		p := entity.Product{
			ID:     uuid.New().String(),
			UserID: userID,
			Name:   name,
		}
		if v, ok := parseCellNumber(cellAt(row, cols.price)); ok && v > 0 {
			p.SalePrice = &v
		}
		if v, ok := parseCellNumber(cellAt(row, cols.cost)); ok && v > 0 {
			p.CostPrice = &v
		}
		if raw := cellAt(row, cols.stock); raw != "" {
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
				p.Stock = &n
			}
		}
		p.Category = cellAt(row, cols.category)
		products = append(products, p)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("nenhum produto encontrado na planilha")
	}
	return products, nil
}

type headerColumns struct {
	name, price, cost, stock, category int
}

func findHeader(rows [][]string) (int, headerColumns) {
	cols := headerColumns{name: -1, price: -1, cost: -1, stock: -1, category: -1}
	for idx, row := range rows {
		if len(row) == 0 {
			continue
		}
		for c, cell := range row {
			h := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case cols.name < 0 && matchesHeader(h, nameHeaders):
				cols.name = c
			case cols.cost < 0 && matchesHeader(h, costHeaders):
				cols.cost = c
			case cols.price < 0 && matchesHeader(h, priceHeaders):
				cols.price = c
			case cols.stock < 0 && matchesHeader(h, stockHeaders):
				cols.stock = c
			case cols.category < 0 && matchesHeader(h, categoryHeaders):
				cols.category = c
			}
		}
		if cols.name >= 0 {
			return idx, cols
		}
		// Reset and keep looking: this row was data noise above the header.
		cols = headerColumns{name: -1, price: -1, cost: -1, stock: -1, category: -1}
	}
	return 0, cols
}

func matchesHeader(cell string, aliases []string) bool {
	for _, a := range aliases {
		if cell == a {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseCellNumber accepts "80", "80,50", "R$ 80,50" and "1.234,56".
func parseCellNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "R$")
	raw = strings.TrimPrefix(raw, "r$")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if strings.Contains(raw, ",") {
		// Brazilian format: dot is thousands, comma is decimals.
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
