package telegram

import (
	"context"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		h.sendMessageMarkdown(chatID, startReply(message.From.FirstName))

	case "ajuda", "help":
		h.sendMessageMarkdown(chatID, ajudaReply())

	case "produtos":
		h.runDispatcherCommand(ctx, userID, chatID, "meus produtos")

	case "estoque":
		h.runDispatcherCommand(ctx, userID, chatID, "estoque")

	case "relatorio", "relatório":
		h.runDispatcherCommand(ctx, userID, chatID, "quanto vendi no mês")

	case "planilha":
		h.sendSalesReportXLSX(ctx, userID, chatID)

	case "sincronizar":
		h.runDispatcherCommand(ctx, userID, chatID, "sincronizar")

	case "cancelar":
		h.store.Clear(userID)
		h.sendMessage(chatID, "Ok, cancelei o que estava pendente. 👍")

	default:
		h.sendMessage(chatID, "Não conheço esse comando. Manda /ajuda para ver o que eu sei fazer.")
	}
}

// runDispatcherCommand reuses the text routing for commands that are just
// shorthand for an utterance.
func (h *Handler) runDispatcherCommand(ctx context.Context, userID, chatID int64, utterance string) {
	reply, handled, err := h.dispatcher.Handle(ctx, userID, utterance, nil)
	if err != nil || !handled {
		log.Printf("command dispatch failed (user=%d utterance=%q): %v", userID, utterance, err)
		h.sendMessage(chatID, "⚠️ Não consegui processar agora. Tente novamente em instantes.")
		return
	}
	h.sendMessageMarkdown(chatID, reply)
}

func startReply(firstName string) string {
	greeting := "Oi"
	if strings.TrimSpace(firstName) != "" {
		greeting = "Oi, " + strings.TrimSpace(firstName)
	}
	return strings.Join([]string{
		greeting + "! 👋 Eu sou sua caderneta digital.",
		"",
		"Me conta suas movimentações do jeito que você fala:",
		"• *gastei 50 no mercado*",
		"• *vendi fone bluetooth por 80*",
		"• *recebi 200 de um cliente*",
		"",
		"Também aceito foto de produto vendido e planilha de catálogo (.xlsx).",
		"Manda /ajuda quando precisar.",
	}, "\n")
}

func ajudaReply() string {
	return strings.Join([]string{
		"📒 *O que eu sei fazer*",
		"",
		"*Anotações por texto*",
		"• gastos: _gastei 50 no mercado_",
		"• receitas: _recebi 200 de um cliente_",
		"• vendas: _vendi fone bluetooth por 80_",
		"• correções: _na verdade foi transporte_",
		"",
		"*Catálogo e vendas*",
		"• _cadastrar produto Fone Bluetooth 80_",
		"• foto do produto vendido → eu identifico e confirmo o preço",
		"• planilha .xlsx com colunas Produto/Preço → importo o catálogo",
		"",
		"*Comandos*",
		"/produtos — lista o catálogo",
		"/estoque — produtos com controle de estoque",
		"/relatorio — resumo de vendas do mês",
		"/planilha — relatório de vendas em Excel",
		"/sincronizar — envia o catálogo para o sistema externo",
		"/cancelar — descarta a confirmação pendente",
	}, "\n")
}
