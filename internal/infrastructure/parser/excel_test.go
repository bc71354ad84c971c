package parser

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseCatalogXLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Produto", "Preço", "Custo", "Estoque", "Categoria"},
		{"Fone Bluetooth", "80,00", "50", 10, "eletrônicos"},
		{"Capinha", "R$ 15,90", "", "", ""},
		{"", "99", "", "", ""}, // sem nome: ignorada
		{"Caderno", "", "", 5, "papelaria"},
	})

	products, err := ParseCatalogXLSX(data, 42)
	if err != nil {
		t.Fatalf("ParseCatalogXLSX: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("esperava 3 produtos, veio %d", len(products))
	}

	fone := products[0]
	if fone.Name != "Fone Bluetooth" || fone.UserID != 42 {
		t.Errorf("produto 0: %+v", fone)
	}
	if fone.SalePrice == nil || *fone.SalePrice != 80 {
		t.Errorf("preço do fone: %+v", fone.SalePrice)
	}
	if fone.CostPrice == nil || *fone.CostPrice != 50 {
		t.Errorf("custo do fone: %+v", fone.CostPrice)
	}
	if fone.Stock == nil || *fone.Stock != 10 {
		t.Errorf("estoque do fone: %+v", fone.Stock)
	}

	capinha := products[1]
	if capinha.SalePrice == nil || *capinha.SalePrice != 15.9 {
		t.Errorf("preço da capinha: %+v", capinha.SalePrice)
	}
	if capinha.CostPrice != nil || capinha.Stock != nil {
		t.Errorf("campos vazios viram nil: %+v", capinha)
	}

	caderno := products[2]
	if caderno.SalePrice != nil || caderno.Stock == nil || *caderno.Stock != 5 {
		t.Errorf("caderno: %+v", caderno)
	}
	if caderno.Category != "papelaria" {
		t.Errorf("categoria do caderno: %q", caderno.Category)
	}
}

func TestParseCatalogXLSXHeaderBelowNoise(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Catálogo da loja - maio"},
		{},
		{"Nome", "Valor"},
		{"Fone", "80"},
	})

	products, err := ParseCatalogXLSX(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].Name != "Fone" || *products[0].SalePrice != 80 {
		t.Fatalf("cabeçalho abaixo de ruído: %+v", products)
	}
}

func TestParseCatalogXLSXMissingNameColumn(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Coluna A", "Coluna B"},
		{"x", "y"},
	})
	if _, err := ParseCatalogXLSX(data, 1); err == nil {
		t.Fatal("sem coluna de produto devia dar erro")
	}
}

func TestParseCellNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"80", 80, true},
		{"80,50", 80.5, true},
		{"R$ 80,50", 80.5, true},
		{"1.234,56", 1234.56, true},
		{"80.5", 80.5, true},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCellNumber(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseCellNumber(%q) = (%v, %v), esperava (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
