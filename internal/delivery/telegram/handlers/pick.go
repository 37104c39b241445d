// internal/delivery/telegram/handlers/pick.go
package handlers

import (
	"context"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/delivery/telegram/constants"
)

// PickHandler обрабатывает выбор значения в воронке анализа.
// Параметр к моменту вызова уже записан в рабочие данные сессии
// диспетчером, обработчику остается выполнить переход.
type PickHandler struct {
	name   string
	token  string
	action conversation.Action

	machine *conversation.Machine
}

var _ Handler = (*PickHandler)(nil)

func newPickHandler(name, token string, action conversation.Action, machine *conversation.Machine) *PickHandler {
	return &PickHandler{name: name, token: token, action: action, machine: machine}
}

// NewAnalysisTypeHandler выбор типа анализа
func NewAnalysisTypeHandler(machine *conversation.Machine) *PickHandler {
	return newPickHandler("analysis_type", constants.CallbackAnalysisType,
		conversation.ActionPickAnalysisType, machine)
}

// NewMarketHandler выбор рынка
func NewMarketHandler(machine *conversation.Machine) *PickHandler {
	return newPickHandler("market_select", constants.CallbackMarket,
		conversation.ActionPickMarket, machine)
}

// NewInstrumentHandler выбор инструмента
func NewInstrumentHandler(machine *conversation.Machine) *PickHandler {
	return newPickHandler("instrument_select", constants.CallbackInstrument,
		conversation.ActionPickInstrument, machine)
}

// NewTimeframeHandler выбор таймфрейма
func NewTimeframeHandler(machine *conversation.Machine) *PickHandler {
	return newPickHandler("timeframe_select", constants.CallbackTimeframe,
		conversation.ActionPickTimeframe, machine)
}

func (h *PickHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	return h.machine.Advance(ctx, p.Session, h.action), nil
}

func (h *PickHandler) GetName() string  { return h.name }
func (h *PickHandler) GetToken() string { return h.token }
