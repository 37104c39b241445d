// internal/delivery/telegram/handlers/start.go
package handlers

import (
	"context"

	"forex-signals-bot/internal/core/domain/conversation"
)

// StartHandler обрабатывает команду /start: полный сброс сессии
type StartHandler struct {
	machine *conversation.Machine
}

var _ Handler = (*StartHandler)(nil)

func NewStartHandler(machine *conversation.Machine) *StartHandler {
	return &StartHandler{machine: machine}
}

func (h *StartHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	return h.machine.Reset(ctx, p.Session), nil
}

func (h *StartHandler) GetName() string  { return "start" }
func (h *StartHandler) GetToken() string { return "/start" }
