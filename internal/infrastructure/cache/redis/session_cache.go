// internal/infrastructure/cache/redis/session_cache.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/infrastructure/config"
)

// SessionCache долговременный ярус хранилища сессий в Redis.
// Сессии живут бессрочно (без TTL): диалог должен переживать перезапуск.
type SessionCache struct {
	client *redis.Client
	prefix string
}

// NewSessionCache создает хранилище сессий поверх Redis
func NewSessionCache(cfg *config.Config) (*SessionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis недоступен: %w", err)
	}

	return &SessionCache{
		client: client,
		prefix: "fxsignals:session:",
	}, nil
}

func (c *SessionCache) key(userID int64) string {
	return fmt.Sprintf("%s%d", c.prefix, userID)
}

// Save сохраняет сессию
func (c *SessionCache) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return c.client.Set(ctx, c.key(s.UserID), data, 0).Err()
}

// Load загружает сессию. Возвращает (nil, nil), если сессии нет.
func (c *SessionCache) Load(ctx context.Context, userID int64) (*session.Session, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Close закрывает подключение к Redis
func (c *SessionCache) Close() error {
	return c.client.Close()
}
