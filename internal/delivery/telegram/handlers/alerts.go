// internal/delivery/telegram/handlers/alerts.go
package handlers

import (
	"context"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/core/domain/signals/store"
	"forex-signals-bot/internal/delivery/telegram/constants"
	"forex-signals-bot/pkg/logger"
)

// alertFlowMetadata собирает метаданные сценария ALERT по сигналу
func alertFlowMetadata(ctx context.Context, st *store.SignalStore, userID int64, signalID string) map[string]string {
	metadata := map[string]string{"signal_id": signalID}

	sig, err := st.GetByID(ctx, userID, signalID)
	if err != nil {
		logger.Debug("Сигнал %s не найден при входе в сценарий ALERT: %v", signalID, err)
		return metadata
	}

	metadata["ref_instrument"] = sig.Instrument
	metadata["ref_direction"] = sig.Direction
	metadata["ref_timeframe"] = sig.Timeframe
	return metadata
}

// SignalViewHandler открывает карточку сигнала из списка,
// переводя сессию в сценарий ALERT
type SignalViewHandler struct {
	machine *conversation.Machine
	store   *store.SignalStore
}

var _ Handler = (*SignalViewHandler)(nil)

func NewSignalViewHandler(machine *conversation.Machine, st *store.SignalStore) *SignalViewHandler {
	return &SignalViewHandler{machine: machine, store: st}
}

func (h *SignalViewHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	metadata := alertFlowMetadata(ctx, h.store, p.Session.UserID, p.Param)
	session.SetFlow(p.Session, session.FlowAlert, metadata)
	return h.machine.Advance(ctx, p.Session, conversation.ActionViewSignal), nil
}

func (h *SignalViewHandler) GetName() string  { return "signal_view" }
func (h *SignalViewHandler) GetToken() string { return constants.CallbackSignalView }

// AlertAnalyzeHandler обрабатывает кнопку "Анализировать" на сообщении
// сигнала. Кнопка может прийти из любого состояния сессии.
type AlertAnalyzeHandler struct {
	machine *conversation.Machine
	store   *store.SignalStore
}

var _ Handler = (*AlertAnalyzeHandler)(nil)

func NewAlertAnalyzeHandler(machine *conversation.Machine, st *store.SignalStore) *AlertAnalyzeHandler {
	return &AlertAnalyzeHandler{machine: machine, store: st}
}

func (h *AlertAnalyzeHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	metadata := alertFlowMetadata(ctx, h.store, p.Session.UserID, p.Param)
	session.SetFlow(p.Session, session.FlowAlert, metadata)
	return h.machine.Advance(ctx, p.Session, conversation.ActionAnalyzeSignal), nil
}

func (h *AlertAnalyzeHandler) GetName() string  { return "alert_analyze" }
func (h *AlertAnalyzeHandler) GetToken() string { return constants.CallbackAlertAnalyze }
