// internal/core/domain/signals/types.go
package signals

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Направления сигнала
const (
	DirectionBuy  = "BUY"
	DirectionSell = "SELL"
)

// Категории рынков
const (
	MarketForex       = "forex"
	MarketCrypto      = "crypto"
	MarketIndices     = "indices"
	MarketCommodities = "commodities"
)

// Signal торговый сигнал. После создания не изменяется.
type Signal struct {
	ID          string            `json:"id" db:"id"`
	Instrument  string            `json:"instrument" db:"instrument"`
	Direction   string            `json:"direction" db:"direction"`
	Entry       decimal.Decimal   `json:"entry" db:"entry"`
	StopLoss    decimal.Decimal   `json:"stop_loss" db:"stop_loss"`
	TakeProfits []decimal.Decimal `json:"take_profits" db:"-"`
	Timeframe   string            `json:"timeframe" db:"timeframe"`
	Market      string            `json:"market" db:"market"`
	Text        string            `json:"text" db:"text"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// BuildID строит детерминированный идентификатор сигнала.
// Формат: EURUSD_BUY_1h_1719824000
func BuildID(instrument, direction, timeframe string, createdAt time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%d",
		strings.ToUpper(instrument), direction, timeframe, createdAt.Unix())
}

// DetectMarket определяет категорию рынка по инструменту
func DetectMarket(instrument string) string {
	symbol := strings.ToUpper(instrument)

	switch {
	case strings.HasSuffix(symbol, "USDT") || strings.HasSuffix(symbol, "BTC") ||
		strings.HasPrefix(symbol, "BTC") || strings.HasPrefix(symbol, "ETH") ||
		strings.HasPrefix(symbol, "SOL") || strings.HasPrefix(symbol, "XRP"):
		return MarketCrypto
	case strings.HasPrefix(symbol, "XAU") || strings.HasPrefix(symbol, "XAG") ||
		strings.HasPrefix(symbol, "USOIL") || strings.HasPrefix(symbol, "WTI") ||
		strings.HasPrefix(symbol, "BRENT"):
		return MarketCommodities
	case strings.HasPrefix(symbol, "US30") || strings.HasPrefix(symbol, "US500") ||
		strings.HasPrefix(symbol, "SPX") || strings.HasPrefix(symbol, "GER") ||
		strings.HasPrefix(symbol, "NAS") || strings.HasPrefix(symbol, "DAX"):
		return MarketIndices
	default:
		return MarketForex
	}
}

// Clone возвращает глубокую копию сигнала
func (s *Signal) Clone() *Signal {
	if s == nil {
		return nil
	}
	clone := *s
	clone.TakeProfits = make([]decimal.Decimal, len(s.TakeProfits))
	copy(clone.TakeProfits, s.TakeProfits)
	return &clone
}
