package telegram

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramMessageLimit is Telegram's hard cap per message.
const telegramMessageLimit = 4096

func (h *Handler) sendMessage(chatID int64, text string) {
	h.send(chatID, text, "")
}

func (h *Handler) sendMessageMarkdown(chatID int64, text string) {
	h.send(chatID, text, "Markdown")
}

func (h *Handler) send(chatID int64, text string, parseMode string) {
	if h.bot == nil {
		log.Printf("send skipped (bot is nil) chat=%d", chatID)
		return
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("empty reply suppressed chat=%d", chatID)
		text = "Desculpa, não consegui montar uma resposta. Manda um /ajuda para ver o que eu sei fazer."
	}

	for _, chunk := range splitIntoChunks(text, telegramMessageLimit) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = parseMode
		if _, err := h.bot.Send(msg); err != nil {
			// Malformed markdown is the usual culprit; retry as plain text.
			if parseMode != "" {
				msg.ParseMode = ""
				if _, retryErr := h.bot.Send(msg); retryErr == nil {
					continue
				}
			}
			log.Printf("send failed chat=%d: %v", chatID, err)
			return
		}
	}
}

func (h *Handler) sendDocument(chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := h.bot.Send(doc)
	return err
}

func (h *Handler) sendTyping(chatID int64) {
	if h.bot == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := h.bot.Send(action); err != nil {
		log.Printf("typing action failed chat=%d: %v", chatID, err)
	}
}

// splitIntoChunks breaks text into rune-safe pieces under the Telegram limit.
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 {
		return []string{s}
	}
	var chunks []string
	var current strings.Builder

	for _, r := range s {
		current.WriteRune(r)
		if current.Len() >= limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
