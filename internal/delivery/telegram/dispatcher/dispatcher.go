// internal/delivery/telegram/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"strings"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/delivery/telegram/handlers"
	"forex-signals-bot/pkg/logger"
)

// Entry запись таблицы маршрутизации
type Entry struct {
	Handler handlers.Handler
	// ParamKey ключ scratch, в который диспетчер записывает параметр
	// токена до вызова обработчика. Пустая строка — параметр в scratch
	// не пишется, обработчик получает его через Params.
	ParamKey string
}

// Dispatcher маршрутизирует callback токены по обработчикам.
// Порядок поиска: таблица текущего сценария, затем общая таблица.
type Dispatcher struct {
	alertTable  map[string]Entry
	menuTable   map[string]Entry
	globalTable map[string]Entry
}

// NewDispatcher создает диспетчер с пустыми таблицами
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		alertTable:  make(map[string]Entry),
		menuTable:   make(map[string]Entry),
		globalTable: make(map[string]Entry),
	}
}

// RegisterAlert регистрирует обработчик для сценария ALERT
func (d *Dispatcher) RegisterAlert(e Entry) {
	d.alertTable[e.Handler.GetToken()] = e
}

// RegisterMenu регистрирует обработчик для сценария MENU
func (d *Dispatcher) RegisterMenu(e Entry) {
	d.menuTable[e.Handler.GetToken()] = e
}

// RegisterGlobal регистрирует обработчик, общий для всех сценариев
func (d *Dispatcher) RegisterGlobal(e Entry) {
	d.globalTable[e.Handler.GetToken()] = e
}

// Dispatch разбирает токен, применяет параметр к сессии и вызывает
// обработчик. Возвращает handled=false, если токен никому не адресован.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *session.Session, chatID int64,
	data, callbackID string) (conversation.Screen, bool, error) {

	token, param := splitToken(data)

	entry, ok := d.lookup(sess, token)
	if !ok {
		logger.Debug("Токен %q не адресован ни одному обработчику (пользователь %d)",
			token, sess.UserID)
		return conversation.Screen{}, false, nil
	}

	if param != "" && entry.ParamKey != "" {
		sess.ApplyParam(entry.ParamKey, param)
	}

	screen, err := entry.Handler.Execute(ctx, &handlers.Params{
		Session:    sess,
		ChatID:     chatID,
		Token:      token,
		Param:      param,
		CallbackID: callbackID,
	})
	return screen, true, err
}

// lookup ищет обработчик токена: сценарная таблица, затем общая
func (d *Dispatcher) lookup(sess *session.Session, token string) (Entry, bool) {
	var flowTable map[string]Entry
	switch session.GetFlow(sess) {
	case session.FlowAlert:
		flowTable = d.alertTable
	case session.FlowMenu:
		flowTable = d.menuTable
	}

	if flowTable != nil {
		if entry, ok := flowTable[token]; ok {
			return entry, true
		}
	}

	entry, ok := d.globalTable[token]
	return entry, ok
}

// splitToken отделяет параметр от токена по первому двоеточию
func splitToken(data string) (token, param string) {
	if idx := strings.Index(data, ":"); idx >= 0 {
		return data[:idx], data[idx+1:]
	}
	return data, ""
}
