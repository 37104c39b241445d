// internal/infrastructure/persistence/postgres/connection.go
package postgres

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"forex-signals-bot/internal/infrastructure/config"
	"forex-signals-bot/pkg/logger"
)

// Connect открывает подключение к PostgreSQL и настраивает пул
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.GetPostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.Database.MaxConnIdleTime)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("✅ Подключение к PostgreSQL установлено")

	// Выполняем миграции
	if cfg.Database.EnableAutoMigrate && cfg.Database.MigrationsPath != "" {
		if err := RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
			// Не падаем, если миграции не удались, но логируем ошибку
			logger.Warn("⚠️ Не удалось выполнить миграции: %v", err)
		}
	}

	return db, nil
}

// RunMigrations применяет *.sql файлы из каталога миграций по порядку
func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(absPath, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
		logger.Debug("Миграция применена: %s", name)
	}

	return nil
}
