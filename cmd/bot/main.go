package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"memotrain/internal/config"
	"memotrain/internal/delivery/telegram"
	"memotrain/internal/infra/postgres"
	pgrepo "memotrain/internal/infra/postgres/repository"
	"memotrain/internal/logger"
	"memotrain/internal/repository"
	"memotrain/internal/service"
)

func main() {
	// Load .env for local development; in production the variables come
	// from the environment itself.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zl.Fatal("failed to create bot api", zap.Error(err))
	}
	zl.Info("authorized", zap.String("account", bot.Self.UserName))

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Show the welcome message"},
		{Command: "quiz", Description: "Start a practice session"},
		{Command: "library", Description: "Browse your items"},
		{Command: "additem", Description: "Add an item (/additem key = answer1; answer2)"},
		{Command: "categories", Description: "Manage categories"},
		{Command: "addcategory", Description: "Add a category (/addcategory name)"},
		{Command: "stats", Description: "Accuracy overview"},
		{Command: "settings", Description: "Session length and question style"},
		{Command: "export", Description: "Download your library as JSON"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		zl.Warn("failed to set bot commands", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		items      service.ItemRepository
		categories service.CategoryRepository
		settings   service.SettingsRepository
		importer   service.LibraryImporter
	)

	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			zl.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			zl.Fatal("failed to ensure schema", zap.Error(err))
		}

		itemRepo := pgrepo.NewItemRepository(pool)
		items = itemRepo
		importer = itemRepo
		categories = pgrepo.NewCategoryRepository(pool)
		settings = pgrepo.NewSettingsRepository(pool)
		zl.Info("using postgres library backend")
	} else {
		fileRepo, err := repository.NewFileRepository(cfg.LibraryPath, zl)
		if err != nil {
			zl.Fatal("failed to open library file", zap.String("path", cfg.LibraryPath), zap.Error(err))
		}
		items = fileRepo
		categories = fileRepo
		settings = fileRepo
		importer = fileRepo
		zl.Info("using file library backend", zap.String("path", cfg.LibraryPath))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	settingsService := service.NewSettingsService(settings)
	libraryService := service.NewLibraryService(items, categories, importer, zl)
	tracker := service.NewStatsTracker(items, zl)
	quizService := service.NewQuizService(
		items,
		settingsService,
		service.NewWeighter(rng),
		service.NewGenerator(rng),
		tracker,
		zl,
	)

	handler := telegram.NewHandler(bot, zl, rng, libraryService, settingsService, quizService)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zl.Fatal("bot stopped", zap.Error(err))
	}

	zl.Info("shutdown complete")
}
