package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/domain/entity"
)

// sendSalesReportXLSX exports the current month's sales as a spreadsheet.
func (h *Handler) sendSalesReportXLSX(ctx context.Context, userID, chatID int64) {
	now := time.Now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	entries, err := h.repo.ListEntries(ctx, userID, entity.KindRevenue, since)
	if err != nil {
		log.Printf("sales xlsx: list entries failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui montar o relatório agora. Tente novamente em instantes.")
		return
	}

	var sales []entity.LedgerEntry
	for _, e := range entries {
		if e.Category == constants.SalesCategory {
			sales = append(sales, e)
		}
	}
	if len(sales) == 0 {
		h.sendMessage(chatID, "Nenhuma venda registrada neste mês ainda.")
		return
	}

	buf, err := buildSalesReportXLSX(sales)
	if err != nil {
		log.Printf("sales xlsx: build failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui montar o relatório agora. Tente novamente em instantes.")
		return
	}

	name := fmt.Sprintf("vendas-%s.xlsx", now.Format("2006-01"))
	if err := h.sendDocument(chatID, name, buf.Bytes()); err != nil {
		log.Printf("sales xlsx: send failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui enviar o arquivo. Tente novamente em instantes.")
	}
}

func buildSalesReportXLSX(sales []entity.LedgerEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Resumo"
	const salesSheet = "Vendas"
	f.SetSheetName(f.GetSheetName(0), summarySheet)
	if _, err := f.NewSheet(salesSheet); err != nil {
		return nil, err
	}

	headers := []string{"Data", "Descrição", "Valor (R$)"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(salesSheet, cell, header)
	}

	total := 0.0
	for i, e := range sales {
		row := i + 2
		values := []interface{}{
			e.Date.Format("02/01/2006 15:04"),
			e.Description,
			e.Amount,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(salesSheet, cell, v)
		}
		total += e.Amount
	}

	f.SetCellValue(summarySheet, "A1", "Vendas")
	f.SetCellValue(summarySheet, "B1", len(sales))
	f.SetCellValue(summarySheet, "A2", "Total (R$)")
	f.SetCellValue(summarySheet, "B2", total)
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
