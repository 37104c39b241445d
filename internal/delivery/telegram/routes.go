// internal/delivery/telegram/routes.go
package telegram

import (
	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/signals/store"
	"forex-signals-bot/internal/core/domain/subscription"
	"forex-signals-bot/internal/delivery/telegram/dispatcher"
	"forex-signals-bot/internal/delivery/telegram/handlers"
)

// BuildDispatcher собирает таблицы маршрутизации.
// Кнопки анализа (график/сентимент/календарь) ведут себя по-разному
// в сценариях ALERT и MENU, остальные токены общие.
func BuildDispatcher(machine *conversation.Machine, st *store.SignalStore,
	subs *subscription.Service) *dispatcher.Dispatcher {

	d := dispatcher.NewDispatcher()

	// Сценарий ALERT: инструмент известен из сигнала, сразу результат
	d.RegisterAlert(dispatcher.Entry{Handler: handlers.NewAlertChartHandler(machine)})
	d.RegisterAlert(dispatcher.Entry{Handler: handlers.NewAlertSentimentHandler(machine)})
	d.RegisterAlert(dispatcher.Entry{Handler: handlers.NewAlertCalendarHandler(machine)})

	// Сценарий MENU: те же токены заводят в воронку выбора
	d.RegisterMenu(dispatcher.Entry{Handler: handlers.NewMenuChartHandler(machine)})
	d.RegisterMenu(dispatcher.Entry{Handler: handlers.NewMenuSentimentHandler(machine)})
	d.RegisterMenu(dispatcher.Entry{Handler: handlers.NewMenuCalendarHandler(machine)})

	// Общая таблица
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewStartHandler(machine)})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewMainMenuHandler(machine)})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewAnalysisOpenHandler(machine)})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewSignalsMenuHandler(machine)})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewBackHandler(machine)})

	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewAnalysisTypeHandler(machine), ParamKey: "analysis_type"})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewMarketHandler(machine), ParamKey: "market"})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewInstrumentHandler(machine), ParamKey: "instrument"})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewTimeframeHandler(machine), ParamKey: "timeframe"})

	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewSignalViewHandler(machine, st)})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewAlertAnalyzeHandler(machine, st)})

	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewSubscribeHandler(subs)})
	d.RegisterGlobal(dispatcher.Entry{Handler: handlers.NewMySubsHandler(subs)})

	return d
}
