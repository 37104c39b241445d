// internal/core/domain/distributor/normalizer.go
package distributor

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"forex-signals-bot/internal/core/domain/signals"
)

// RawSignal входящий сигнал в одной из двух форм:
//   - абсолютная: instrument, direction, entry, stop_loss, take_profit, timeframe;
//   - краткая: instrument, price, sl, tp1..tp3, interval — направление
//     выводится: BUY, если stop < price, иначе SELL.
type RawSignal struct {
	Instrument string `json:"instrument"`

	// Абсолютная форма
	Direction  string `json:"direction,omitempty"`
	Entry      string `json:"entry,omitempty"`
	StopLoss   string `json:"stop_loss,omitempty"`
	TakeProfit string `json:"take_profit,omitempty"`
	Timeframe  string `json:"timeframe,omitempty"`

	// Краткая форма
	Price    string `json:"price,omitempty"`
	SL       string `json:"sl,omitempty"`
	TP1      string `json:"tp1,omitempty"`
	TP2      string `json:"tp2,omitempty"`
	TP3      string `json:"tp3,omitempty"`
	Interval string `json:"interval,omitempty"`
}

// Normalize приводит входящий сигнал к каноническому виду.
// Возвращает *signals.ValidationError при некорректных данных.
func Normalize(raw *RawSignal, now time.Time) (*signals.Signal, error) {
	if raw == nil || strings.TrimSpace(raw.Instrument) == "" {
		return nil, signals.NewValidationError("instrument", "отсутствует")
	}
	instrument := strings.ToUpper(strings.TrimSpace(raw.Instrument))

	if raw.Entry != "" || raw.Direction != "" {
		return normalizeAbsolute(raw, instrument, now)
	}
	return normalizeShorthand(raw, instrument, now)
}

func normalizeAbsolute(raw *RawSignal, instrument string, now time.Time) (*signals.Signal, error) {
	direction := strings.ToUpper(strings.TrimSpace(raw.Direction))
	if direction != signals.DirectionBuy && direction != signals.DirectionSell {
		return nil, signals.NewValidationError("direction", "ожидается BUY или SELL")
	}

	entry, err := parsePrice(raw.Entry)
	if err != nil {
		return nil, signals.NewValidationError("entry", "не число")
	}
	stopLoss, err := parsePrice(raw.StopLoss)
	if err != nil {
		return nil, signals.NewValidationError("stop_loss", "не число")
	}

	var takeProfits []decimal.Decimal
	if raw.TakeProfit != "" {
		tp, err := parsePrice(raw.TakeProfit)
		if err != nil {
			return nil, signals.NewValidationError("take_profit", "не число")
		}
		takeProfits = append(takeProfits, tp)
	}

	timeframe := strings.TrimSpace(raw.Timeframe)
	if timeframe == "" {
		return nil, signals.NewValidationError("timeframe", "отсутствует")
	}

	return build(instrument, direction, entry, stopLoss, takeProfits, timeframe, now), nil
}

func normalizeShorthand(raw *RawSignal, instrument string, now time.Time) (*signals.Signal, error) {
	entry, err := parsePrice(raw.Price)
	if err != nil {
		return nil, signals.NewValidationError("price", "не число")
	}
	stopLoss, err := parsePrice(raw.SL)
	if err != nil {
		return nil, signals.NewValidationError("sl", "не число")
	}

	// BUY тогда и только тогда, когда стоп ниже цены входа
	direction := signals.DirectionSell
	if stopLoss.LessThan(entry) {
		direction = signals.DirectionBuy
	}

	var takeProfits []decimal.Decimal
	for _, field := range []string{raw.TP1, raw.TP2, raw.TP3} {
		if field == "" {
			continue
		}
		tp, err := parsePrice(field)
		if err != nil {
			return nil, signals.NewValidationError("tp", "не число")
		}
		takeProfits = append(takeProfits, tp)
	}

	timeframe := strings.TrimSpace(raw.Interval)
	if timeframe == "" {
		return nil, signals.NewValidationError("interval", "отсутствует")
	}

	return build(instrument, direction, entry, stopLoss, takeProfits, timeframe, now), nil
}

func build(instrument, direction string, entry, stopLoss decimal.Decimal,
	takeProfits []decimal.Decimal, timeframe string, now time.Time) *signals.Signal {
	return &signals.Signal{
		ID:          signals.BuildID(instrument, direction, timeframe, now),
		Instrument:  instrument,
		Direction:   direction,
		Entry:       entry,
		StopLoss:    stopLoss,
		TakeProfits: takeProfits,
		Timeframe:   timeframe,
		Market:      signals.DetectMarket(instrument),
		CreatedAt:   now,
	}
}

func parsePrice(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Decimal{}, signals.NewValidationError("price", "пустое значение")
	}
	return decimal.NewFromString(trimmed)
}
