// internal/delivery/telegram/formatters/signal.go
package formatters

import (
	"fmt"
	"strings"

	"forex-signals-bot/internal/core/domain/signals"
	"forex-signals-bot/internal/delivery/telegram/buttons"
	"forex-signals-bot/internal/delivery/telegram/constants"
)

// SignalFormatter форматирует уведомления о торговых сигналах
type SignalFormatter struct{}

// NewSignalFormatter создает форматтер сигналов
func NewSignalFormatter() *SignalFormatter {
	return &SignalFormatter{}
}

// FormatSignal строит текст уведомления о сигнале
func (f *SignalFormatter) FormatSignal(sig *signals.Signal) string {
	var sb strings.Builder

	arrow := "🟢 ПОКУПКА"
	if sig.Direction == signals.DirectionSell {
		arrow = "🔴 ПРОДАЖА"
	}

	sb.WriteString(fmt.Sprintf("📈 СИГНАЛ: %s\n", sig.Instrument))
	sb.WriteString(fmt.Sprintf("%s | %s\n\n", arrow, sig.Timeframe))
	sb.WriteString(fmt.Sprintf("▪️ Вход: %s\n", sig.Entry.String()))
	sb.WriteString(fmt.Sprintf("▪️ Стоп: %s\n", sig.StopLoss.String()))

	for i, tp := range sig.TakeProfits {
		sb.WriteString(fmt.Sprintf("🎯 Цель %d: %s\n", i+1, tp.String()))
	}

	sb.WriteString(fmt.Sprintf("\nРынок: %s", sig.Market))
	return sb.String()
}

// SignalKeyboard строит клавиатуру уведомления с кнопкой анализа
func (f *SignalFormatter) SignalKeyboard(sig *signals.Signal) interface{} {
	return buttons.NewBuilder().
		Row(buttons.CallbackParam(constants.ButtonAnalyzeAlert, constants.CallbackAlertAnalyze, sig.ID)).
		Row(buttons.Callback(constants.ButtonMainMenu, constants.CallbackMainMenu)).
		Build()
}

// FormatSignalShort строит однострочное описание сигнала для списков
func (f *SignalFormatter) FormatSignalShort(sig *signals.Signal) string {
	arrow := "🟢"
	if sig.Direction == signals.DirectionSell {
		arrow = "🔴"
	}
	return fmt.Sprintf("%s %s %s %s", arrow, sig.Instrument, sig.Direction, sig.Timeframe)
}
