// internal/delivery/telegram/handlers/analysis.go
package handlers

import (
	"context"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/delivery/telegram/constants"
)

// AlertAnalysisHandler обрабатывает кнопки анализа в сценарии ALERT:
// данные инструмента уже известны из сигнала, переход идет сразу на
// экран результата.
type AlertAnalysisHandler struct {
	name   string
	token  string
	action conversation.Action

	machine *conversation.Machine
}

var _ Handler = (*AlertAnalysisHandler)(nil)

func newAlertAnalysisHandler(name, token string, action conversation.Action, machine *conversation.Machine) *AlertAnalysisHandler {
	return &AlertAnalysisHandler{name: name, token: token, action: action, machine: machine}
}

func NewAlertChartHandler(machine *conversation.Machine) *AlertAnalysisHandler {
	return newAlertAnalysisHandler("alert_chart", constants.CallbackShowChart,
		conversation.ActionShowChart, machine)
}

func NewAlertSentimentHandler(machine *conversation.Machine) *AlertAnalysisHandler {
	return newAlertAnalysisHandler("alert_sentiment", constants.CallbackShowSent,
		conversation.ActionShowSentiment, machine)
}

func NewAlertCalendarHandler(machine *conversation.Machine) *AlertAnalysisHandler {
	return newAlertAnalysisHandler("alert_calendar", constants.CallbackShowCalendar,
		conversation.ActionShowCalendar, machine)
}

func (h *AlertAnalysisHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	return h.machine.Advance(ctx, p.Session, h.action), nil
}

func (h *AlertAnalysisHandler) GetName() string  { return h.name }
func (h *AlertAnalysisHandler) GetToken() string { return h.token }

// MenuAnalysisHandler обрабатывает те же кнопки в сценарии MENU:
// инструмент заранее не известен, пользователь заводится в воронку
// выбора с нужным типом анализа.
type MenuAnalysisHandler struct {
	name         string
	token        string
	analysisType string

	machine *conversation.Machine
}

var _ Handler = (*MenuAnalysisHandler)(nil)

func newMenuAnalysisHandler(name, token, analysisType string, machine *conversation.Machine) *MenuAnalysisHandler {
	return &MenuAnalysisHandler{name: name, token: token, analysisType: analysisType, machine: machine}
}

func NewMenuChartHandler(machine *conversation.Machine) *MenuAnalysisHandler {
	return newMenuAnalysisHandler("menu_chart", constants.CallbackShowChart,
		conversation.AnalysisTechnical, machine)
}

func NewMenuSentimentHandler(machine *conversation.Machine) *MenuAnalysisHandler {
	return newMenuAnalysisHandler("menu_sentiment", constants.CallbackShowSent,
		conversation.AnalysisSentiment, machine)
}

func NewMenuCalendarHandler(machine *conversation.Machine) *MenuAnalysisHandler {
	return newMenuAnalysisHandler("menu_calendar", constants.CallbackShowCalendar,
		conversation.AnalysisCalendar, machine)
}

func (h *MenuAnalysisHandler) Execute(ctx context.Context, p *Params) (conversation.Screen, error) {
	p.Session.ApplyParam("analysis_type", h.analysisType)
	return h.machine.Advance(ctx, p.Session, conversation.ActionPickAnalysisType), nil
}

func (h *MenuAnalysisHandler) GetName() string  { return h.name }
func (h *MenuAnalysisHandler) GetToken() string { return h.token }
