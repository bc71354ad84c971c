package telegram

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/caderneta-bot/internal/domain/repository"
	"github.com/yourusername/caderneta-bot/internal/usecase"
)

// Handler owns the Telegram side of the bot: it receives updates, pushes them
// through the worker pool and renders every reply the use cases produce.
type Handler struct {
	bot        *tgbotapi.BotAPI
	repo       repository.LedgerRepository
	ai         repository.AIParser
	store      usecase.ContextStore
	dispatcher *usecase.SalesDispatcher
	engine     *usecase.ImageSaleEngine

	workers    *workerPool
	httpClient *http.Client

	processingMu sync.Mutex
	processing   map[int64]bool
}

// NewHandler creates the Telegram handler and authenticates the bot token.
func NewHandler(
	token string,
	repo repository.LedgerRepository,
	ai repository.AIParser,
	store usecase.ContextStore,
	dispatcher *usecase.SalesDispatcher,
	engine *usecase.ImageSaleEngine,
) (*Handler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	h := &Handler{
		bot:        bot,
		repo:       repo,
		ai:         ai,
		store:      store,
		dispatcher: dispatcher,
		engine:     engine,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	h.workers = newWorkerPool(h, defaultWorkerCount)
	return h, nil
}

// GetBotUsername returns the bot's username from Telegram API state.
func (h *Handler) GetBotUsername() string {
	return h.bot.Self.UserName
}
