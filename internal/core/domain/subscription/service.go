// internal/core/domain/subscription/service.go
package subscription

import (
	"context"

	"forex-signals-bot/internal/infrastructure/persistence/postgres/models"
	"forex-signals-bot/pkg/logger"
)

// Repository хранилище подписок (PostgreSQL или in-memory)
type Repository interface {
	Subscribe(ctx context.Context, userID int64, instrument, timeframe string) error
	Unsubscribe(ctx context.Context, userID int64, instrument, timeframe string) error
	ListByUser(ctx context.Context, userID int64) ([]models.Subscription, error)
	ListSubscribers(ctx context.Context, instrument, timeframe string) ([]int64, error)
	IsActive(ctx context.Context, userID int64) (bool, error)
	HasPaymentFailed(ctx context.Context, userID int64) (bool, error)
}

// Service бизнес-логика подписок
type Service struct {
	repo Repository
}

// NewService создает сервис подписок
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Subscribe подписывает пользователя на (инструмент, таймфрейм)
func (s *Service) Subscribe(ctx context.Context, userID int64, instrument, timeframe string) error {
	return s.repo.Subscribe(ctx, userID, instrument, timeframe)
}

// Unsubscribe отменяет подписку
func (s *Service) Unsubscribe(ctx context.Context, userID int64, instrument, timeframe string) error {
	return s.repo.Unsubscribe(ctx, userID, instrument, timeframe)
}

// ListByUser возвращает активные подписки пользователя
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]models.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

// IsActive проверяет, действует ли подписка пользователя
func (s *Service) IsActive(ctx context.Context, userID int64) (bool, error) {
	return s.repo.IsActive(ctx, userID)
}

// HasPaymentFailed проверяет, просрочен ли платёж пользователя
func (s *Service) HasPaymentFailed(ctx context.Context, userID int64) (bool, error) {
	return s.repo.HasPaymentFailed(ctx, userID)
}

// Recipients возвращает получателей рассылки сигнала: подписчики
// (инструмент, таймфрейм) с действующей подпиской и без просроченного
// платежа. Ошибка проверки одного пользователя исключает только его.
func (s *Service) Recipients(ctx context.Context, instrument, timeframe string) ([]int64, error) {
	candidates, err := s.repo.ListSubscribers(ctx, instrument, timeframe)
	if err != nil {
		return nil, err
	}

	recipients := make([]int64, 0, len(candidates))
	for _, userID := range candidates {
		active, err := s.repo.IsActive(ctx, userID)
		if err != nil {
			logger.Warn("⚠️ Не удалось проверить подписку %d: %v", userID, err)
			continue
		}
		if !active {
			continue
		}

		failed, err := s.repo.HasPaymentFailed(ctx, userID)
		if err != nil {
			logger.Warn("⚠️ Не удалось проверить платёж %d: %v", userID, err)
			continue
		}
		if failed {
			logger.Debug("Пользователь %d исключён из рассылки: просроченный платёж", userID)
			continue
		}

		recipients = append(recipients, userID)
	}
	return recipients, nil
}
