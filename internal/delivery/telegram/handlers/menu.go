// internal/delivery/telegram/handlers/menu.go
package handlers

import (
	"context"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/delivery/telegram/constants"
)

// MainMenuHandler возвращает пользователя в главное меню
type MainMenuHandler struct {
	machine *conversation.Machine
}

var _ Handler = (*MainMenuHandler)(nil)

func NewMainMenuHandler(machine *conversation.Machine) *MainMenuHandler {
	return &MainMenuHandler{machine: machine}
}

func (h *MainMenuHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	return h.machine.Advance(ctx, p.Session, conversation.ActionStart), nil
}

func (h *MainMenuHandler) GetName() string  { return "main_menu" }
func (h *MainMenuHandler) GetToken() string { return constants.CallbackMainMenu }

// AnalysisOpenHandler открывает раздел анализа, переводя сессию в
// сценарий MENU
type AnalysisOpenHandler struct {
	machine *conversation.Machine
}

var _ Handler = (*AnalysisOpenHandler)(nil)

func NewAnalysisOpenHandler(machine *conversation.Machine) *AnalysisOpenHandler {
	return &AnalysisOpenHandler{machine: machine}
}

func (h *AnalysisOpenHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	session.SetFlow(p.Session, session.FlowMenu, nil)
	return h.machine.Advance(ctx, p.Session, conversation.ActionOpenAnalysis), nil
}

func (h *AnalysisOpenHandler) GetName() string  { return "analysis_open" }
func (h *AnalysisOpenHandler) GetToken() string { return constants.CallbackAnalysisOpen }

// SignalsMenuHandler открывает список сигналов пользователя
type SignalsMenuHandler struct {
	machine *conversation.Machine
}

var _ Handler = (*SignalsMenuHandler)(nil)

func NewSignalsMenuHandler(machine *conversation.Machine) *SignalsMenuHandler {
	return &SignalsMenuHandler{machine: machine}
}

func (h *SignalsMenuHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	return h.machine.Advance(ctx, p.Session, conversation.ActionSignalsMenu), nil
}

func (h *SignalsMenuHandler) GetName() string  { return "signals_menu" }
func (h *SignalsMenuHandler) GetToken() string { return constants.CallbackSignalsMenu }

// BackHandler обрабатывает кнопку "Назад"
type BackHandler struct {
	machine *conversation.Machine
}

var _ Handler = (*BackHandler)(nil)

func NewBackHandler(machine *conversation.Machine) *BackHandler {
	return &BackHandler{machine: machine}
}

func (h *BackHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	return h.machine.Back(ctx, p.Session), nil
}

func (h *BackHandler) GetName() string  { return "back" }
func (h *BackHandler) GetToken() string { return constants.CallbackBack }
