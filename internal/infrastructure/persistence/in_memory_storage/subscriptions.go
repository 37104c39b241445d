// internal/infrastructure/persistence/in_memory_storage/subscriptions.go
package storage

import (
	"context"
	"sync"
	"time"

	"forex-signals-bot/internal/infrastructure/persistence/postgres/models"
)

// SubscriptionStorage in-memory реализация хранилища подписок.
// Используется при DB_ENABLED=false и в тестах.
type SubscriptionStorage struct {
	mu sync.RWMutex

	// userID → (инструмент/таймфрейм → подписка)
	byUser map[int64]map[subKey]*models.Subscription
}

type subKey struct {
	instrument string
	timeframe  string
}

// NewSubscriptionStorage создает новое in-memory хранилище подписок
func NewSubscriptionStorage() *SubscriptionStorage {
	return &SubscriptionStorage{
		byUser: make(map[int64]map[subKey]*models.Subscription),
	}
}

// Subscribe создает или реактивирует подписку
func (s *SubscriptionStorage) Subscribe(_ context.Context, userID int64, instrument, timeframe string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUser[userID]; !exists {
		s.byUser[userID] = make(map[subKey]*models.Subscription)
	}
	s.byUser[userID][subKey{instrument, timeframe}] = &models.Subscription{
		UserID:     userID,
		Instrument: instrument,
		Timeframe:  timeframe,
		Status:     models.StatusActive,
		CreatedAt:  time.Now(),
	}
	return nil
}

// Unsubscribe отменяет подписку
func (s *SubscriptionStorage) Unsubscribe(_ context.Context, userID int64, instrument, timeframe string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if subs, exists := s.byUser[userID]; exists {
		if sub, ok := subs[subKey{instrument, timeframe}]; ok {
			sub.Status = models.StatusCanceled
		}
	}
	return nil
}

// SetStatus выставляет статус всем подпискам пользователя (биллинг)
func (s *SubscriptionStorage) SetStatus(userID int64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.byUser[userID] {
		sub.Status = status
	}
}

// ListByUser возвращает активные подписки пользователя
func (s *SubscriptionStorage) ListByUser(_ context.Context, userID int64) ([]models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Subscription
	for _, sub := range s.byUser[userID] {
		if sub.IsActive() {
			result = append(result, *sub)
		}
	}
	return result, nil
}

// ListSubscribers возвращает пользователей с активной подпиской на (инструмент, таймфрейм)
func (s *SubscriptionStorage) ListSubscribers(_ context.Context, instrument, timeframe string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []int64
	key := subKey{instrument, timeframe}
	for userID, subs := range s.byUser {
		if sub, ok := subs[key]; ok && sub.IsActive() {
			ids = append(ids, userID)
		}
	}
	return ids, nil
}

// IsActive проверяет наличие хотя бы одной активной подписки
func (s *SubscriptionStorage) IsActive(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.byUser[userID] {
		if sub.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// HasPaymentFailed проверяет наличие просроченного платежа
func (s *SubscriptionStorage) HasPaymentFailed(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.byUser[userID] {
		if sub.PaymentFailed() {
			return true, nil
		}
	}
	return false, nil
}
