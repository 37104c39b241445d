// internal/core/domain/distributor/normalizer_test.go
package distributor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-signals-bot/internal/core/domain/signals"
)

func TestNormalize_AbsoluteForm(t *testing.T) {
	now := time.Unix(1719824000, 0)

	t.Run("полный сигнал", func(t *testing.T) {
		sig, err := Normalize(&RawSignal{
			Instrument: "eurusd",
			Direction:  "buy",
			Entry:      "1.0850",
			StopLoss:   "1.0800",
			TakeProfit: "1.0950",
			Timeframe:  "1h",
		}, now)
		require.NoError(t, err)

		assert.Equal(t, "EURUSD_BUY_1h_1719824000", sig.ID)
		assert.Equal(t, "EURUSD", sig.Instrument)
		assert.Equal(t, signals.DirectionBuy, sig.Direction)
		assert.Equal(t, "1.085", sig.Entry.String())
		require.Len(t, sig.TakeProfits, 1)
		assert.Equal(t, signals.MarketForex, sig.Market)
	})

	t.Run("направление вне BUY/SELL отклоняется", func(t *testing.T) {
		_, err := Normalize(&RawSignal{
			Instrument: "EURUSD",
			Direction:  "LONG",
			Entry:      "1.0850",
			StopLoss:   "1.0800",
			Timeframe:  "1h",
		}, now)

		var vErr *signals.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "direction", vErr.Field)
	})

	t.Run("нечисловая цена отклоняется", func(t *testing.T) {
		_, err := Normalize(&RawSignal{
			Instrument: "EURUSD",
			Direction:  "BUY",
			Entry:      "дорого",
			StopLoss:   "1.0800",
			Timeframe:  "1h",
		}, now)

		var vErr *signals.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "entry", vErr.Field)
	})
}

func TestNormalize_ShorthandForm(t *testing.T) {
	now := time.Unix(1719824000, 0)

	t.Run("стоп ниже цены - BUY", func(t *testing.T) {
		sig, err := Normalize(&RawSignal{
			Instrument: "EURUSD",
			Price:      "1.0850",
			SL:         "1.0800",
			TP1:        "1.0950",
			Interval:   "1h",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, signals.DirectionBuy, sig.Direction)
	})

	t.Run("стоп выше цены - SELL", func(t *testing.T) {
		sig, err := Normalize(&RawSignal{
			Instrument: "EURUSD",
			Price:      "1.0850",
			SL:         "1.0900",
			TP1:        "1.0750",
			Interval:   "4h",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, signals.DirectionSell, sig.Direction)
	})

	t.Run("количество целей сохраняется", func(t *testing.T) {
		sig, err := Normalize(&RawSignal{
			Instrument: "XAUUSD",
			Price:      "2400",
			SL:         "2380",
			TP1:        "2420",
			TP2:        "2440",
			TP3:        "2470",
			Interval:   "1d",
		}, now)
		require.NoError(t, err)
		assert.Len(t, sig.TakeProfits, 3)
		assert.Equal(t, signals.MarketCommodities, sig.Market)
	})

	t.Run("цели необязательны", func(t *testing.T) {
		sig, err := Normalize(&RawSignal{
			Instrument: "EURUSD",
			Price:      "1.0850",
			SL:         "1.0800",
			Interval:   "1h",
		}, now)
		require.NoError(t, err)
		assert.Empty(t, sig.TakeProfits)
	})

	t.Run("без таймфрейма отклоняется", func(t *testing.T) {
		_, err := Normalize(&RawSignal{
			Instrument: "EURUSD",
			Price:      "1.0850",
			SL:         "1.0800",
		}, now)

		var vErr *signals.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "interval", vErr.Field)
	})
}

func TestNormalize_MissingInstrument(t *testing.T) {
	var vErr *signals.ValidationError

	_, err := Normalize(&RawSignal{Price: "1.0850", SL: "1.08", Interval: "1h"}, time.Now())
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "instrument", vErr.Field)

	_, err = Normalize(nil, time.Now())
	require.ErrorAs(t, err, &vErr)
}
