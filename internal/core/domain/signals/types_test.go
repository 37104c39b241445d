// internal/core/domain/signals/types_test.go
package signals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDetectMarket(t *testing.T) {
	cases := map[string]string{
		// forex
		"EURUSD": MarketForex,
		"USDJPY": MarketForex,
		"eurusd": MarketForex,
		// crypto
		"BTCUSD":  MarketCrypto,
		"ETHUSDT": MarketCrypto,
		"SOLUSD":  MarketCrypto,
		"XRPUSD":  MarketCrypto,
		// индексы
		"US30":   MarketIndices,
		"NAS100": MarketIndices,
		"SPX500": MarketIndices,
		"GER40":  MarketIndices,
		// сырьё
		"XAUUSD": MarketCommodities,
		"XAGUSD": MarketCommodities,
		"USOIL":  MarketCommodities,
	}

	for instrument, want := range cases {
		t.Run(instrument, func(t *testing.T) {
			assert.Equal(t, want, DetectMarket(instrument))
		})
	}
}

func TestBuildID(t *testing.T) {
	createdAt := time.Unix(1719824000, 0)
	assert.Equal(t, "EURUSD_BUY_1h_1719824000", BuildID("eurusd", DirectionBuy, "1h", createdAt))
}

func TestSignal_Clone(t *testing.T) {
	sig := &Signal{
		ID:          "EURUSD_BUY_1h_1719824000",
		Instrument:  "EURUSD",
		Direction:   DirectionBuy,
		TakeProfits: []decimal.Decimal{decimal.NewFromFloat(1.0900)},
	}

	clone := sig.Clone()
	clone.TakeProfits[0] = decimal.NewFromFloat(9.9999)

	assert.True(t, sig.TakeProfits[0].Equal(decimal.NewFromFloat(1.0900)),
		"копия не должна делить срез целей с оригиналом")
}
