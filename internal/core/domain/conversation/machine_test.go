// internal/core/domain/conversation/machine_test.go
package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"forex-signals-bot/internal/core/domain/session"
)

// fakeRenderer отрисовывает имя экрана; для перечисленных экранов
// возвращает ошибку или панику
type fakeRenderer struct {
	failOn  map[State]bool
	panicOn map[State]bool
}

func (r *fakeRenderer) Render(_ context.Context, _ *session.Session, st State) (Screen, error) {
	if r.panicOn[st] {
		panic("отрисовщик сломался")
	}
	if r.failOn[st] {
		return Screen{}, fmt.Errorf("экран %s недоступен", st)
	}
	return Screen{Text: string(st)}, nil
}

func newTestMachine() *Machine {
	return NewMachine(&fakeRenderer{})
}

func TestMachine_MenuFunnel(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()

	sess := session.NewSession(42, 42)
	session.SetFlow(sess, session.FlowMenu, nil)

	m.Advance(ctx, sess, ActionOpenAnalysis)
	assert.Equal(t, string(StateChooseAnalysisType), sess.State)

	sess.ApplyParam("analysis_type", AnalysisTechnical)
	m.Advance(ctx, sess, ActionPickAnalysisType)
	assert.Equal(t, string(StateChooseMarket), sess.State)

	sess.ApplyParam("market", "FOREX")
	m.Advance(ctx, sess, ActionPickMarket)
	assert.Equal(t, string(StateChooseInstrument), sess.State)

	sess.ApplyParam("instrument", "EURUSD")
	m.Advance(ctx, sess, ActionPickInstrument)
	assert.Equal(t, string(StateChooseTimeframe), sess.State)

	sess.ApplyParam("timeframe", "1h")
	m.Advance(ctx, sess, ActionPickTimeframe)
	assert.Equal(t, string(StateShowChart), sess.State)
}

func TestMachine_DynamicRefinements(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()

	t.Run("календарь минует выбор рынка", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		sess.State = string(StateChooseAnalysisType)
		sess.ApplyParam("analysis_type", AnalysisCalendar)

		m.Advance(ctx, sess, ActionPickAnalysisType)
		assert.Equal(t, string(StateShowCalendar), sess.State)
	})

	t.Run("сентимент минует выбор таймфрейма", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		sess.State = string(StateChooseInstrument)
		sess.Scratch.Market = "FOREX"
		sess.ApplyParam("analysis_type", AnalysisSentiment)
		sess.ApplyParam("instrument", "EURUSD")

		m.Advance(ctx, sess, ActionPickInstrument)
		assert.Equal(t, string(StateShowSentiment), sess.State)
	})
}

func TestMachine_Guards(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()

	t.Run("экран таймфрейма без инструмента уводит на выбор инструмента", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		sess.State = string(StateChooseInstrument)
		sess.Scratch.Market = "FOREX"

		// Инструмент не записан: выбор таймфрейма недостижим
		m.Advance(ctx, sess, ActionPickInstrument)
		assert.Equal(t, string(StateChooseInstrument), sess.State)
	})

	t.Run("цепочка редиректов поднимается до выбора рынка", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		sess.State = string(StateChooseTimeframe)

		// Ни инструмента, ни рынка: две ступени вверх
		m.Advance(ctx, sess, ActionPickTimeframe)
		assert.Equal(t, string(StateChooseMarket), sess.State)
	})

	t.Run("карточка сигнала без ссылки уводит в список сигналов", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		sess.State = string(StateSignalsMenu)

		m.Advance(ctx, sess, ActionViewSignal)
		assert.Equal(t, string(StateSignalsMenu), sess.State)
	})
}

func TestMachine_UnknownAction(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()

	sess := session.NewSession(42, 42)
	sess.State = string(StateMainMenu)

	screen := m.Advance(ctx, sess, ActionPickTimeframe)
	assert.Equal(t, string(StateMainMenu), sess.State)
	assert.Equal(t, string(StateMainMenu), screen.Text)
}

func TestMachine_Back(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()

	t.Run("в сценарии MENU график возвращает к выбору таймфрейма", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		session.SetFlow(sess, session.FlowMenu, nil)
		sess.State = string(StateShowChart)
		sess.Scratch.Market = "FOREX"
		sess.ApplyParam("instrument", "EURUSD")
		sess.ApplyParam("timeframe", "1h")

		m.Back(ctx, sess)
		assert.Equal(t, string(StateChooseTimeframe), sess.State)
	})

	t.Run("в сценарии ALERT график возвращает в меню анализа сигнала", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		session.SetFlow(sess, session.FlowAlert, map[string]string{
			"signal_id":      "EURUSD_BUY_1h_1719824000",
			"ref_instrument": "EURUSD",
			"ref_direction":  "BUY",
			"ref_timeframe":  "1h",
		})
		sess.State = string(StateShowChart)

		m.Back(ctx, sess)
		assert.Equal(t, string(StateAlertAnalysisMenu), sess.State)
	})

	t.Run("в сценарии ALERT кнопки анализа работают из любого состояния", func(t *testing.T) {
		sess := session.NewSession(42, 42)
		session.SetFlow(sess, session.FlowAlert, map[string]string{
			"ref_instrument": "EURUSD",
			"ref_timeframe":  "1h",
		})
		sess.State = string(StateAlertDetails)

		m.Advance(ctx, sess, ActionShowSentiment)
		assert.Equal(t, string(StateShowSentiment), sess.State)
	})
}

func TestMachine_RenderFailureFallsBackToMainMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("ошибка отрисовки", func(t *testing.T) {
		m := NewMachine(&fakeRenderer{failOn: map[State]bool{StateShowCalendar: true}})

		sess := session.NewSession(42, 42)
		sess.State = string(StateChooseAnalysisType)
		sess.ApplyParam("analysis_type", AnalysisCalendar)

		screen := m.Advance(ctx, sess, ActionPickAnalysisType)
		assert.Equal(t, string(StateMainMenu), sess.State)
		assert.Contains(t, screen.Text, "Что-то пошло не так")
	})

	t.Run("паника отрисовщика перехватывается", func(t *testing.T) {
		m := NewMachine(&fakeRenderer{panicOn: map[State]bool{StateShowCalendar: true}})

		sess := session.NewSession(42, 42)
		sess.State = string(StateChooseAnalysisType)
		sess.ApplyParam("analysis_type", AnalysisCalendar)

		screen := m.Advance(ctx, sess, ActionPickAnalysisType)
		assert.Equal(t, string(StateMainMenu), sess.State)
		assert.Contains(t, screen.Text, "Что-то пошло не так")
	})
}

func TestMachine_Reset(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()

	sess := session.NewSession(42, 42)
	session.SetFlow(sess, session.FlowAlert, map[string]string{"ref_instrument": "EURUSD"})
	sess.State = string(StateShowChart)

	m.Reset(ctx, sess)

	assert.Equal(t, string(StateMainMenu), sess.State)
	assert.Equal(t, session.FlowMenu, session.GetFlow(sess))
	assert.True(t, sess.EffectiveRef().IsEmpty())
}
