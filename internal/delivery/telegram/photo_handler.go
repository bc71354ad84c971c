package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxDownloadBytes caps file downloads; the Bot API itself stops at 20 MB.
const maxDownloadBytes = 20 << 20

// handlePhotoMessage downloads the photo, asks the vision model what product
// it shows and hands the result to the confirmation state machine.
func (h *Handler) handlePhotoMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	h.sendTyping(chatID)

	// Telegram orders PhotoSize ascending; the last one is the sharpest.
	photo := message.Photo[len(message.Photo)-1]
	data, err := h.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Printf("photo download failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui baixar a foto. Tente enviar de novo.")
		return
	}

	rec, err := h.ai.RecognizeProduct(ctx, data, "image/jpeg")
	if err != nil {
		log.Printf("photo recognition failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui identificar o produto na foto. Me diga o nome dele, ex.: *vendi fone bluetooth*.")
		return
	}

	reply, err := h.engine.HandleRecognition(ctx, userID, *rec)
	if err != nil {
		log.Printf("image sale start failed (user=%d): %v", userID, err)
		h.sendMessage(chatID, "⚠️ Não consegui processar a foto agora. Tente novamente em instantes.")
		return
	}
	h.sendMessageMarkdown(chatID, reply)
}

func (h *Handler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
}
