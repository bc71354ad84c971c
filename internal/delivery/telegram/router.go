package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Start consumes the update channel until the context is cancelled.
func (h *Handler) Start(ctx context.Context) error {
	h.workers.start(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.workers.shutdown()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// The bookkeeping conversation is strictly one-on-one.
	if message.Chat == nil || !message.Chat.IsPrivate() || message.From == nil {
		return
	}

	userID := message.From.ID
	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
	}

	// One turn at a time per user: a second message while the first is
	// still being handled would race on the same pending context.
	if !h.startProcessing(userID) {
		h.sendMessage(message.Chat.ID, "⏳ Um instante, ainda estou na sua última mensagem.")
		return
	}

	switch {
	case message.Document != nil:
		h.runGuarded(userID, func() { h.handleDocumentMessage(ctx, message) })
	case len(message.Photo) > 0:
		h.runGuarded(userID, func() { h.handlePhotoMessage(ctx, message) })
	case message.IsCommand():
		h.runGuarded(userID, func() { h.handleCommand(ctx, message) })
	case strings.TrimSpace(message.Text) != "":
		// The worker releases the guard when the turn finishes.
		if !h.workers.submit(&messageRequest{
			ctx:      ctx,
			userID:   userID,
			username: username,
			text:     message.Text,
			chatID:   message.Chat.ID,
			message:  message,
		}) {
			h.endProcessing(userID)
		}
	default:
		h.endProcessing(userID)
	}
}
