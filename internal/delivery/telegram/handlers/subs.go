// internal/delivery/telegram/handlers/subs.go
package handlers

import (
	"context"
	"fmt"
	"strings"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/subscription"
	"forex-signals-bot/internal/delivery/telegram/buttons"
	"forex-signals-bot/internal/delivery/telegram/constants"
)

// SubscribeHandler подписывает пользователя на сигналы по выбранным
// инструменту и таймфрейму
type SubscribeHandler struct {
	subs *subscription.Service
}

var _ Handler = (*SubscribeHandler)(nil)

func NewSubscribeHandler(subs *subscription.Service) *SubscribeHandler {
	return &SubscribeHandler{subs: subs}
}

func (h *SubscribeHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	instrument := p.Session.EffectiveInstrument()
	timeframe := p.Session.EffectiveTimeframe()

	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonMainMenu, constants.CallbackMainMenu)).
		Build()

	if instrument == "" || timeframe == "" {
		return conversation.Screen{
			Text:     "⚠️ Сначала выберите инструмент и таймфрейм в разделе анализа.",
			Keyboard: kb,
		}, nil
	}

	if err := h.subs.Subscribe(ctx, p.Session.UserID, instrument, timeframe); err != nil {
		return conversation.Screen{}, fmt.Errorf("подписка %d на %s %s: %w",
			p.Session.UserID, instrument, timeframe, err)
	}

	return conversation.Screen{
		Text:     fmt.Sprintf("🔔 Подписка оформлена: %s · %s", instrument, timeframe),
		Keyboard: kb,
	}, nil
}

func (h *SubscribeHandler) GetName() string  { return "subscribe" }
func (h *SubscribeHandler) GetToken() string { return constants.CallbackSubscribe }

// MySubsHandler показывает список подписок пользователя
type MySubsHandler struct {
	subs *subscription.Service
}

var _ Handler = (*MySubsHandler)(nil)

func NewMySubsHandler(subs *subscription.Service) *MySubsHandler {
	return &MySubsHandler{subs: subs}
}

func (h *MySubsHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	list, err := h.subs.ListByUser(ctx, p.Session.UserID)
	if err != nil {
		return conversation.Screen{}, fmt.Errorf("список подписок %d: %w", p.Session.UserID, err)
	}

	var sb strings.Builder
	sb.WriteString("📋 Ваши подписки:\n\n")
	if len(list) == 0 {
		sb.WriteString("Подписок пока нет.")
	}
	for _, sub := range list {
		status := "✅"
		if !sub.IsActive() {
			status = "⏸"
		}
		sb.WriteString(fmt.Sprintf("%s %s · %s\n", status, sub.Instrument, sub.Timeframe))
	}

	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonMainMenu, constants.CallbackMainMenu)).
		Build()

	return conversation.Screen{Text: sb.String(), Keyboard: kb}, nil
}

func (h *MySubsHandler) GetName() string  { return "my_subs" }
func (h *MySubsHandler) GetToken() string { return constants.CallbackMySubs }
