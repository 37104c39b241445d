// internal/infrastructure/persistence/postgres/models/subscription.go
package models

import (
	"time"
)

// Состояния подписки
const (
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Subscription подписка пользователя на (инструмент, таймфрейм)
type Subscription struct {
	UserID     int64     `db:"user_id" json:"user_id"`
	Instrument string    `db:"instrument" json:"instrument"`
	Timeframe  string    `db:"timeframe" json:"timeframe"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// IsActive проверяет, действует ли подписка
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// PaymentFailed проверяет, просрочен ли платёж
func (s *Subscription) PaymentFailed() bool {
	return s.Status == StatusPastDue
}
