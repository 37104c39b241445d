// internal/core/domain/session/flow_test.go
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetFlow(t *testing.T) {
	t.Run("ALERT гасит флаг MENU", func(t *testing.T) {
		s := NewSession(42, 42)
		SetFlow(s, FlowMenu, nil)
		SetFlow(s, FlowAlert, nil)

		assert.Equal(t, FlowAlert, GetFlow(s))
		assert.True(t, s.AlertFlow)
		assert.False(t, s.MenuFlow)
	})

	t.Run("метаданные вливаются в scratch", func(t *testing.T) {
		s := NewSession(42, 42)
		SetFlow(s, FlowAlert, map[string]string{
			"signal_id":      "EURUSD_BUY_1h_1719824000",
			"ref_instrument": "EURUSD",
			"ref_direction":  "BUY",
			"ref_timeframe":  "1h",
		})

		ref := s.EffectiveRef()
		assert.Equal(t, "EURUSD_BUY_1h_1719824000", ref.SignalID)
		assert.Equal(t, "EURUSD", ref.Instrument)
		assert.Equal(t, "BUY", ref.Direction)
		assert.Equal(t, "1h", ref.Timeframe)
	})

	t.Run("неизвестный сценарий приводится к unknown", func(t *testing.T) {
		s := NewSession(42, 42)
		SetFlow(s, FlowType("billing"), nil)

		assert.Equal(t, FlowUnknown, GetFlow(s))
		assert.False(t, s.MenuFlow)
		assert.False(t, s.AlertFlow)
	})
}

func TestGetFlow_LegacySessions(t *testing.T) {
	t.Run("старый формат: только булев флаг ALERT", func(t *testing.T) {
		s := &Session{UserID: 42, AlertFlow: true}
		assert.Equal(t, FlowAlert, GetFlow(s))
	})

	t.Run("старый формат: только булев флаг MENU", func(t *testing.T) {
		s := &Session{UserID: 42, MenuFlow: true}
		assert.Equal(t, FlowMenu, GetFlow(s))
	})

	t.Run("явный маркер важнее устаревших флагов", func(t *testing.T) {
		s := &Session{UserID: 42, Flow: FlowMenu, AlertFlow: true}
		assert.Equal(t, FlowMenu, GetFlow(s))
	})
}

func TestSignalRefBackup(t *testing.T) {
	t.Run("резерв переживает сброс первичных ссылок", func(t *testing.T) {
		s := NewSession(42, 42)
		s.SetSignalRef(SignalRef{
			SignalID:   "EURUSD_BUY_1h_1719824000",
			Instrument: "EURUSD",
			Direction:  "BUY",
			Timeframe:  "1h",
		})

		s.ResetPrimaryRefs()

		assert.True(t, s.Scratch.Ref.IsEmpty())
		ref := s.EffectiveRef()
		assert.Equal(t, "EURUSD", ref.Instrument)
		assert.Equal(t, "1h", ref.Timeframe)
	})

	t.Run("пустые поля новой записи резерв не затирают", func(t *testing.T) {
		s := NewSession(42, 42)
		s.SetSignalRef(SignalRef{Instrument: "EURUSD", Direction: "BUY"})
		s.SetSignalRef(SignalRef{SignalID: "GBPUSD_SELL_4h_1719824000"})

		assert.Equal(t, "EURUSD", s.Scratch.RefBackup.Instrument)
		assert.Equal(t, "GBPUSD_SELL_4h_1719824000", s.Scratch.RefBackup.SignalID)
	})

	t.Run("полный сброс стирает и резерв", func(t *testing.T) {
		s := NewSession(42, 42)
		s.SetSignalRef(SignalRef{Instrument: "EURUSD"})
		s.ResetScratch()

		assert.True(t, s.EffectiveRef().IsEmpty())
	})
}

func TestEffectiveValues(t *testing.T) {
	t.Run("scratch важнее ссылки на сигнал", func(t *testing.T) {
		s := NewSession(42, 42)
		s.SetSignalRef(SignalRef{Instrument: "EURUSD", Timeframe: "1h"})
		s.ApplyParam("instrument", "GBPUSD")

		assert.Equal(t, "GBPUSD", s.EffectiveInstrument())
		assert.Equal(t, "1h", s.EffectiveTimeframe())
	})

	t.Run("ApplyParam с ключом signal_id пишет в ссылку", func(t *testing.T) {
		s := NewSession(42, 42)
		s.ApplyParam("signal_id", "EURUSD_BUY_1h_1719824000")

		assert.Equal(t, "EURUSD_BUY_1h_1719824000", s.Scratch.Ref.SignalID)
		assert.Equal(t, "EURUSD_BUY_1h_1719824000", s.Scratch.RefBackup.SignalID)
	})
}
