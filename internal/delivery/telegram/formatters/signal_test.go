// internal/delivery/telegram/formatters/signal_test.go
package formatters

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-signals-bot/internal/core/domain/signals"
	"forex-signals-bot/internal/delivery/telegram/buttons"
)

func TestSignalFormatter(t *testing.T) {
	f := NewSignalFormatter()
	sig := &signals.Signal{
		ID:         "EURUSD_BUY_1h_1719824000",
		Instrument: "EURUSD",
		Direction:  signals.DirectionBuy,
		Entry:      decimal.NewFromFloat(1.0850),
		StopLoss:   decimal.NewFromFloat(1.0800),
		TakeProfits: []decimal.Decimal{
			decimal.NewFromFloat(1.0950),
			decimal.NewFromFloat(1.1050),
		},
		Timeframe: "1h",
		Market:    signals.MarketForex,
		CreatedAt: time.Now(),
	}

	t.Run("текст содержит инструмент и уровни", func(t *testing.T) {
		text := f.FormatSignal(sig)
		assert.Contains(t, text, "EURUSD")
		assert.Contains(t, text, "1.085")
		assert.Contains(t, text, "1.08")
		assert.Contains(t, text, "Цель 2")
	})

	t.Run("SELL помечается как продажа", func(t *testing.T) {
		sell := sig.Clone()
		sell.Direction = signals.DirectionSell
		assert.Contains(t, f.FormatSignal(sell), "ПРОДАЖА")
	})

	t.Run("клавиатура несет кнопку анализа с id сигнала", func(t *testing.T) {
		kb, ok := f.SignalKeyboard(sig).(*buttons.InlineKeyboardMarkup)
		require.True(t, ok)
		require.NotEmpty(t, kb.InlineKeyboard)
		assert.Equal(t, "alert_analyze:EURUSD_BUY_1h_1719824000",
			kb.InlineKeyboard[0][0].CallbackData)
	})
}
