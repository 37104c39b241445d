package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forex-signals-bot/internal/analysis/calendar"
	"forex-signals-bot/internal/analysis/chart"
	"forex-signals-bot/internal/analysis/sentiment"
	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/distributor"
	"forex-signals-bot/internal/core/domain/session"
	signalstore "forex-signals-bot/internal/core/domain/signals/store"
	"forex-signals-bot/internal/core/domain/subscription"
	"forex-signals-bot/internal/delivery/httpapi"
	"forex-signals-bot/internal/delivery/telegram"
	"forex-signals-bot/internal/delivery/telegram/formatters"
	"forex-signals-bot/internal/delivery/telegram/screens"
	rediscache "forex-signals-bot/internal/infrastructure/cache/redis"
	"forex-signals-bot/internal/infrastructure/config"
	storage "forex-signals-bot/internal/infrastructure/persistence/in_memory_storage"
	"forex-signals-bot/internal/infrastructure/persistence/filestore"
	"forex-signals-bot/internal/infrastructure/persistence/postgres"
	signalrepo "forex-signals-bot/internal/infrastructure/persistence/postgres/repository/signal"
	subsrepo "forex-signals-bot/internal/infrastructure/persistence/postgres/repository/subscription"
	"forex-signals-bot/pkg/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию: %v", err)
	}

	// Логгер
	appLogger, err := logger.NewLogger(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.DebugMode)
	if err != nil {
		log.Fatalf("Не удалось создать логгер: %v", err)
	}
	logger.Init(appLogger)

	printHeader("FOREX SIGNALS BOT")
	fmt.Printf("🔧 Конфигурация:\n")
	fmt.Printf("   Окружение: %s\n", cfg.Environment)
	fmt.Printf("   Webhook порт: %d\n", cfg.Telegram.WebhookPort)
	fmt.Printf("   Порт приема сигналов: %d\n", cfg.Ingest.Port)
	fmt.Printf("   PostgreSQL: %s\n", enabledLabel(cfg.Database.Enabled))
	fmt.Printf("   Redis: %s\n", enabledLabel(cfg.Redis.Enabled))
	fmt.Printf("   Каталог данных: %s\n", cfg.Storage.DataDir)
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Файловые ярусы хранилища сигналов
	files, err := filestore.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Не удалось создать файловое хранилище: %v", err)
	}

	// PostgreSQL: ярус БД для сигналов и хранилище подписок
	var dbTier signalstore.DBRepository
	var subsRepo subscription.Repository = storage.NewSubscriptionStorage()
	if cfg.Database.Enabled {
		db, err := postgres.Connect(cfg)
		if err != nil {
			log.Fatalf("Не удалось подключиться к PostgreSQL: %v", err)
		}
		defer db.Close()

		dbTier = signalrepo.NewRepository(db)
		subsRepo = subsrepo.NewRepository(db)
		logger.Info("🗄 PostgreSQL подключен: %s:%d", cfg.Database.Host, cfg.Database.Port)
	} else {
		logger.Warn("⚠️ PostgreSQL отключен: ярус БД и подписки живут в памяти")
	}

	// Хранилище сигналов
	store := signalstore.NewSignalStore(files, dbTier)
	store.StartCleanupRoutine(ctx, cfg.Storage.CleanupInterval, cfg.Storage.RetentionPeriod)

	// Сессии: память + опциональный Redis
	var persistTier session.PersistentTier
	if cfg.Redis.Enabled {
		cache, err := rediscache.NewSessionCache(cfg)
		if err != nil {
			log.Fatalf("Не удалось подключиться к Redis: %v", err)
		}
		defer cache.Close()
		persistTier = cache
		logger.Info("📦 Redis подключен: %s", cfg.GetRedisAddress())
	} else {
		logger.Warn("⚠️ Redis отключен: сессии живут только в памяти")
	}
	sessions := session.NewStore(persistTier)

	// Сервисы
	subsService := subscription.NewService(subsRepo)
	formatter := formatters.NewSignalFormatter()

	chartClient := chart.NewClient(cfg)
	sentimentClient := sentiment.NewClient(cfg)
	calendarClient := calendar.NewClient(cfg)

	renderer := screens.NewRenderer(store, chartClient, sentimentClient, calendarClient, formatter)
	machine := conversation.NewMachine(renderer)

	// Telegram
	tgClient := telegram.NewClient(cfg)
	disp := telegram.BuildDispatcher(machine, store, subsService)
	bot := telegram.NewBot(tgClient, sessions, disp)
	defer bot.Stop()

	webhook := telegram.NewWebhookServer(cfg, bot)
	if err := webhook.Start(); err != nil {
		log.Fatalf("Не удалось запустить webhook сервер: %v", err)
	}

	// Рассылка сигналов
	dist := distributor.NewDistributor(store, subsService, tgClient, formatter, cfg.Telegram.AdminChatIDs)
	ingest := httpapi.NewServer(cfg, dist)
	if err := ingest.Start(); err != nil {
		log.Fatalf("Не удалось запустить сервер приема сигналов: %v", err)
	}

	if cfg.IsDev() {
		logger.Warn("🧪 Режим разработки: подробное логирование включено")
	}
	logger.Info("✅ Бот запущен (версия %s)", cfg.Version)

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Получен сигнал завершения, останавливаемся...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := ingest.Stop(shutdownCtx); err != nil {
		logger.Error("❌ Ошибка остановки сервера приема: %v", err)
	}
	if err := webhook.Stop(shutdownCtx); err != nil {
		logger.Error("❌ Ошибка остановки webhook сервера: %v", err)
	}

	logger.Info("👋 Бот остановлен")
}

func printHeader(title string) {
	fmt.Println("============================================")
	fmt.Printf("  %s\n", title)
	fmt.Println("============================================")
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "включен ⚡"
	}
	return "отключен"
}
