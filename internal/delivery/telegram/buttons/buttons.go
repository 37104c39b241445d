// internal/delivery/telegram/buttons/buttons.go
package buttons

import (
	"fmt"

	"forex-signals-bot/internal/delivery/telegram/constants"
)

// InlineKeyboardButton - кнопка inline клавиатуры
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// InlineKeyboardMarkup - разметка inline клавиатуры
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// Builder собирает inline клавиатуру по рядам
type Builder struct {
	rows [][]InlineKeyboardButton
}

// NewBuilder создает пустой билдер клавиатуры
func NewBuilder() *Builder {
	return &Builder{}
}

// Row добавляет ряд кнопок
func (b *Builder) Row(btns ...InlineKeyboardButton) *Builder {
	if len(btns) > 0 {
		b.rows = append(b.rows, btns)
	}
	return b
}

// Build возвращает готовую разметку
func (b *Builder) Build() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: b.rows}
}

// Callback создает кнопку с callback токеном
func Callback(text, token string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: token}
}

// CallbackParam создает кнопку с параметризованным токеном "токен:значение"
func CallbackParam(text, token, param string) InlineKeyboardButton {
	return InlineKeyboardButton{
		Text:         text,
		CallbackData: fmt.Sprintf("%s:%s", token, param),
	}
}

// BackRow возвращает ряд из кнопок Назад и Главное меню
func BackRow() []InlineKeyboardButton {
	return []InlineKeyboardButton{
		Callback(constants.ButtonBack, constants.CallbackBack),
		Callback(constants.ButtonMainMenu, constants.CallbackMainMenu),
	}
}

// Grid раскладывает параметризованные кнопки по perRow штук в ряд
func Grid(token string, values []string, perRow int) [][]InlineKeyboardButton {
	var rows [][]InlineKeyboardButton
	var row []InlineKeyboardButton
	for _, v := range values {
		row = append(row, CallbackParam(v, token, v))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}
