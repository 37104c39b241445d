// internal/delivery/telegram/handlers/types.go
package handlers

import (
	"context"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
)

// Params параметры обработки callback или команды
type Params struct {
	Session    *session.Session
	ChatID     int64
	Token      string // токен без параметра
	Param      string // извлеченный параметр (если есть)
	CallbackID string
}

// Handler обработчик действия пользователя
type Handler interface {
	Execute(ctx context.Context, p *Params) (conversation.Screen, error)
	GetName() string
	GetToken() string
}
