// internal/infrastructure/persistence/postgres/repository/subscription/repository.go
package subscription

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"forex-signals-bot/internal/infrastructure/persistence/postgres/models"
)

// Repository управляет подписками пользователей в PostgreSQL
type Repository struct {
	db *sqlx.DB
}

// NewRepository создает новый репозиторий подписок
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Subscribe создает или реактивирует подписку на (инструмент, таймфрейм)
func (r *Repository) Subscribe(ctx context.Context, userID int64, instrument, timeframe string) error {
	query := `
    INSERT INTO subscriptions (user_id, instrument, timeframe, status)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (user_id, instrument, timeframe)
    DO UPDATE SET status = $4
    `
	if _, err := r.db.ExecContext(ctx, query, userID, instrument, timeframe, models.StatusActive); err != nil {
		return fmt.Errorf("failed to subscribe %d to %s/%s: %w", userID, instrument, timeframe, err)
	}
	return nil
}

// Unsubscribe отменяет подписку
func (r *Repository) Unsubscribe(ctx context.Context, userID int64, instrument, timeframe string) error {
	query := `
    UPDATE subscriptions SET status = $4
    WHERE user_id = $1 AND instrument = $2 AND timeframe = $3
    `
	if _, err := r.db.ExecContext(ctx, query, userID, instrument, timeframe, models.StatusCanceled); err != nil {
		return fmt.Errorf("failed to unsubscribe %d from %s/%s: %w", userID, instrument, timeframe, err)
	}
	return nil
}

// ListByUser возвращает активные подписки пользователя
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Subscription, error) {
	query := `
    SELECT user_id, instrument, timeframe, status, created_at
    FROM subscriptions
    WHERE user_id = $1 AND status = $2
    ORDER BY created_at
    `
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query, userID, models.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for %d: %w", userID, err)
	}
	return subs, nil
}

// ListSubscribers возвращает id пользователей с активной подпиской на (инструмент, таймфрейм)
func (r *Repository) ListSubscribers(ctx context.Context, instrument, timeframe string) ([]int64, error) {
	query := `
    SELECT user_id FROM subscriptions
    WHERE instrument = $1 AND timeframe = $2 AND status = $3
    `
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, instrument, timeframe, models.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to list subscribers for %s/%s: %w", instrument, timeframe, err)
	}
	return ids, nil
}

// IsActive проверяет, есть ли у пользователя хоть одна активная подписка
func (r *Repository) IsActive(ctx context.Context, userID int64) (bool, error) {
	var status string
	query := `
    SELECT status FROM subscriptions
    WHERE user_id = $1 AND status = $2
    LIMIT 1
    `
	err := r.db.GetContext(ctx, &status, query, userID, models.StatusActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check subscription for %d: %w", userID, err)
	}
	return true, nil
}

// HasPaymentFailed проверяет наличие просроченного платежа
func (r *Repository) HasPaymentFailed(ctx context.Context, userID int64) (bool, error) {
	var status string
	query := `
    SELECT status FROM subscriptions
    WHERE user_id = $1 AND status = $2
    LIMIT 1
    `
	err := r.db.GetContext(ctx, &status, query, userID, models.StatusPastDue)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check payment status for %d: %w", userID, err)
	}
	return true, nil
}
