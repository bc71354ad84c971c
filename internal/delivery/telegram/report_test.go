package telegram

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

func TestBuildSalesReportXLSX(t *testing.T) {
	date := time.Date(2026, 8, 10, 14, 30, 0, 0, time.UTC)
	sales := []entity.LedgerEntry{
		{Description: "Venda: Fone Bluetooth", Amount: 80, Date: date},
		{Description: "Venda: Carregador USB-C", Amount: 35.5, Date: date.Add(24 * time.Hour)},
	}

	buf, err := buildSalesReportXLSX(sales)
	if err != nil {
		t.Fatalf("buildSalesReportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "Resumo" {
		t.Fatalf("first sheet = %q, want Resumo", got)
	}

	salesChecks := map[string]string{
		"A1": "Data",
		"B1": "Descrição",
		"C1": "Valor (R$)",
		"A2": "10/08/2026 14:30",
		"B2": "Venda: Fone Bluetooth",
		"C2": "80",
		"B3": "Venda: Carregador USB-C",
		"C3": "35.5",
	}
	for cell, want := range salesChecks {
		got, err := f.GetCellValue("Vendas", cell)
		if err != nil {
			t.Fatalf("GetCellValue(Vendas, %s): %v", cell, err)
		}
		if got != want {
			t.Errorf("Vendas!%s = %q, want %q", cell, got, want)
		}
	}

	summaryChecks := map[string]string{
		"A1": "Vendas",
		"B1": "2",
		"A2": "Total (R$)",
		"B2": "115.5",
	}
	for cell, want := range summaryChecks {
		got, err := f.GetCellValue("Resumo", cell)
		if err != nil {
			t.Fatalf("GetCellValue(Resumo, %s): %v", cell, err)
		}
		if got != want {
			t.Errorf("Resumo!%s = %q, want %q", cell, got, want)
		}
	}
}
