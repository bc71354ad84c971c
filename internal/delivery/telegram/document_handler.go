package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/caderneta-bot/internal/infrastructure/parser"
)

// handleDocumentMessage imports a catalog spreadsheet.
func (h *Handler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	doc := message.Document

	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".xlsx") {
		h.sendMessage(chatID, "Por enquanto eu só importo planilhas .xlsx. Exporte o catálogo nesse formato e me mande de novo.")
		return
	}

	h.sendTyping(chatID)
	data, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		log.Printf("catalog download failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui baixar a planilha. Tente enviar de novo.")
		return
	}

	products, err := parser.ParseCatalogXLSX(data, userID)
	if err != nil {
		log.Printf("catalog parse failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não entendi a planilha. Ela precisa de uma coluna *Produto* (e, se quiser, *Preço*, *Custo* e *Estoque*).")
		return
	}

	imported := 0
	for _, p := range products {
		if err := h.repo.CreateProduct(ctx, p); err != nil {
			log.Printf("catalog import: create product %q failed (user=%d): %v", p.Name, userID, err)
			continue
		}
		imported++
	}

	if imported == 0 {
		h.sendMessage(chatID, "⚠️ Não consegui salvar os produtos da planilha. Tente novamente em instantes.")
		return
	}
	reply := fmt.Sprintf("📥 Catálogo importado: %d produto(s).", imported)
	if imported < len(products) {
		reply += fmt.Sprintf(" %d linha(s) falharam e ficaram de fora.", len(products)-imported)
	}
	h.sendMessageMarkdown(chatID, reply)
}
