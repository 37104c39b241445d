// /internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ============================================
// КОНФИГУРАЦИЯ БАЗЫ ДАННЫХ
// ============================================

// DatabaseConfig - конфигурация базы данных
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	// Включение/отключение яруса БД в SignalStore
	Enabled bool

	// Настройки пула соединений
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	MigrationsPath    string
	EnableAutoMigrate bool
}

// RedisConfig конфигурация Redis (хранилище сессий)
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	Enabled bool

	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TelegramConfig конфигурация Telegram бота
type TelegramConfig struct {
	BotToken string
	BaseURL  string // https://api.telegram.org, переопределяется в тестах

	// Webhook сервер для обновлений от Telegram
	WebhookPort int

	// Администраторские чаты: получают каждый сигнал
	AdminChatIDs []int64

	TestMode bool
}

// StorageConfig конфигурация файловых ярусов SignalStore
type StorageConfig struct {
	// Каталог с данными: <DataDir>/signals.json - центральный файл,
	// <DataDir>/users/<id>.json - пользовательские файлы
	DataDir string

	// Срок хранения сигналов
	RetentionPeriod time.Duration
	CleanupInterval time.Duration
}

// IngestConfig конфигурация HTTP приёма сигналов
type IngestConfig struct {
	Port int
}

// CollaboratorsConfig внешние сервисы анализа
type CollaboratorsConfig struct {
	ChartBaseURL     string
	ChartAPIKey      string
	SentimentBaseURL string
	CalendarBaseURL  string
	RequestTimeout   time.Duration
}

// ============================================
// ОСНОВНАЯ КОНФИГУРАЦИЯ ПРИЛОЖЕНИЯ
// ============================================

// Config - основная структура конфигурации
type Config struct {
	Environment string
	Version     string

	Telegram      TelegramConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Ingest        IngestConfig
	Collaborators CollaboratorsConfig

	Logging struct {
		Level     string
		File      string
		DebugMode bool
	}
}

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		fmt.Printf("⚠️  Config file not found, using environment variables\n")
	}

	cfg := &Config{}

	// ======================
	// ОСНОВНЫЕ НАСТРОЙКИ
	// ======================
	cfg.Environment = getEnv("ENVIRONMENT", "production")
	cfg.Version = getEnv("VERSION", "1.0.0")

	// ======================
	// TELEGRAM
	// ======================
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.Telegram.BaseURL = getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org")
	cfg.Telegram.WebhookPort = getEnvInt("TELEGRAM_WEBHOOK_PORT", 8443)
	cfg.Telegram.AdminChatIDs = getEnvInt64List("ADMIN_CHAT_IDS")
	cfg.Telegram.TestMode = getEnvBool("TELEGRAM_TEST_MODE", false)

	// ======================
	// БАЗА ДАННЫХ
	// ======================
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 10)
	cfg.Database.MaxConnLifetime = getEnvDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute)
	cfg.Database.MaxConnIdleTime = getEnvDuration("DB_MAX_CONN_IDLE_TIME", 10*time.Minute)
	cfg.Database.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "internal/infrastructure/persistence/postgres/migrations")
	cfg.Database.EnableAutoMigrate = getEnvBool("DB_ENABLE_AUTO_MIGRATE", true)
	cfg.Database.Enabled = getEnvBool("DB_ENABLED", true)

	// ======================
	// REDIS
	// ======================
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnvInt("REDIS_PORT", 6379)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.PoolSize = getEnvInt("REDIS_POOL_SIZE", 10)
	cfg.Redis.MinIdleConns = getEnvInt("REDIS_MIN_IDLE_CONNS", 5)
	cfg.Redis.DialTimeout = getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.Redis.ReadTimeout = getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.Redis.WriteTimeout = getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.Redis.Enabled = getEnvBool("REDIS_ENABLED", true)

	// ======================
	// ФАЙЛОВОЕ ХРАНИЛИЩЕ СИГНАЛОВ
	// ======================
	cfg.Storage.DataDir = getEnv("STORAGE_DATA_DIR", "data")
	cfg.Storage.RetentionPeriod = getEnvDuration("STORAGE_RETENTION_PERIOD", 30*24*time.Hour)
	cfg.Storage.CleanupInterval = getEnvDuration("STORAGE_CLEANUP_INTERVAL", 1*time.Hour)

	// ======================
	// ПРИЁМ СИГНАЛОВ (HTTP)
	// ======================
	cfg.Ingest.Port = getEnvInt("INGEST_HTTP_PORT", 8080)

	// ======================
	// ВНЕШНИЕ СЕРВИСЫ АНАЛИЗА
	// ======================
	cfg.Collaborators.ChartBaseURL = getEnv("CHART_BASE_URL", "https://api.chart-img.com")
	cfg.Collaborators.ChartAPIKey = getEnv("CHART_API_KEY", "")
	cfg.Collaborators.SentimentBaseURL = getEnv("SENTIMENT_BASE_URL", "")
	cfg.Collaborators.CalendarBaseURL = getEnv("CALENDAR_BASE_URL", "")
	cfg.Collaborators.RequestTimeout = getEnvDuration("COLLABORATOR_TIMEOUT", 30*time.Second)

	// ======================
	// ЛОГИРОВАНИЕ
	// ======================
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Logging.File = getEnv("LOG_FILE", "logs/bot.log")
	cfg.Logging.DebugMode = getEnvBool("DEBUG_MODE", false)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" && !c.Telegram.TestMode {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN не задан")
	}
	if c.Database.Enabled && c.Database.Name == "" {
		return fmt.Errorf("DB_ENABLED=true, но DB_NAME не задан")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("STORAGE_DATA_DIR не может быть пустым")
	}
	return nil
}

// GetPostgresDSN возвращает строку подключения к PostgreSQL
func (c *Config) GetPostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode,
	)
}

// GetRedisAddress возвращает адрес Redis
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// IsDev проверяет режим разработки
func (c *Config) IsDev() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// ============================================
// ХЕЛПЕРЫ ЧТЕНИЯ ENV
// ============================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvInt64List читает список id через запятую (ADMIN_CHAT_IDS=123,-100456)
func getEnvInt64List(key string) []int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var result []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
