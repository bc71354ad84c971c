package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/caderneta-bot/config"
	"github.com/yourusername/caderneta-bot/internal/delivery/telegram"
	"github.com/yourusername/caderneta-bot/internal/domain/constants"
	"github.com/yourusername/caderneta-bot/internal/infrastructure/catalogsync"
	"github.com/yourusername/caderneta-bot/internal/infrastructure/gemini"
	"github.com/yourusername/caderneta-bot/internal/infrastructure/storage"
	"github.com/yourusername/caderneta-bot/internal/usecase"
	"github.com/yourusername/caderneta-bot/pkg/logger"
)

func main() {
	logger.Init()
	logger.InfoLogger.Println("🚀 Iniciando a caderneta...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuração inválida: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if cfg.AllowEmptySecrets && (cfg.TelegramToken == "" || cfg.GeminiAPIKey == "") {
		logger.InfoLogger.Println("Secrets ausentes (TELEGRAM_BOT_TOKEN/GEMINI_API_KEY). Aguardando sinal de parada.")
		<-sigChan
		return
	}

	// 1. Gemini AI client (text parsing + vision)
	aiRepo, err := gemini.NewGeminiClient(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("❌ Cliente Gemini não inicializou: %v", err)
	}
	logger.InfoLogger.Printf("✅ Cliente Gemini pronto (%s)", constants.GeminiModelName)

	// 2. Ledger storage (Postgres when configured, in-memory otherwise)
	repo, err := storage.NewLedgerStoreFromEnv()
	if err != nil {
		log.Fatalf("❌ Storage não inicializou: %v", err)
	}
	logger.InfoLogger.Println("✅ Storage pronto")

	// 3. Conversational state
	store := usecase.NewMemoryContextStore(constants.PendingContextTTL)

	// 4. Use cases
	sales := usecase.NewSaleRegistrationService(repo)
	engine := usecase.NewImageSaleEngine(repo, store, sales)
	corrections := usecase.NewCorrectionResolver(repo, store)

	var syncer usecase.CatalogSyncer
	if syncCfg, ok := catalogsync.FromEnv(); ok {
		syncer = catalogsync.New(syncCfg)
		logger.InfoLogger.Println("✅ Sincronização de catálogo habilitada")
	}

	dispatcher := usecase.NewSalesDispatcher(repo, store, engine, corrections, sales, syncer)

	// 5. Telegram delivery
	handler, err := telegram.NewHandler(cfg.TelegramToken, repo, aiRepo, store, dispatcher, engine)
	if err != nil {
		log.Fatalf("❌ Bot do Telegram não inicializou: %v", err)
	}
	logger.InfoLogger.Printf("✅ Bot conectado como @%s", handler.GetBotUsername())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go store.Run(ctx, constants.ContextSweepInterval)
	go func() {
		if err := handler.Start(ctx); err != nil && err != context.Canceled {
			logger.ErrorLogger.Printf("bot parou: %v", err)
		}
	}()

	<-sigChan
	logger.InfoLogger.Println("Encerrando...")
	cancel()
}
