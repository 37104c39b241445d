// internal/delivery/telegram/screens/renderer.go
package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"forex-signals-bot/internal/analysis/calendar"
	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/core/domain/signals"
	"forex-signals-bot/internal/core/domain/signals/store"
	"forex-signals-bot/internal/delivery/telegram/buttons"
	"forex-signals-bot/internal/delivery/telegram/constants"
	"forex-signals-bot/internal/delivery/telegram/formatters"
	"forex-signals-bot/pkg/logger"
)

const recentSignalsLimit = 10

// ChartService рендерит график инструмента
type ChartService interface {
	Render(ctx context.Context, instrument, timeframe string) (string, error)
}

// SentimentService возвращает сводку настроений по инструменту
type SentimentService interface {
	Analyze(ctx context.Context, instrument string) (string, error)
}

// CalendarService возвращает события экономического календаря
type CalendarService interface {
	Events(ctx context.Context, date time.Time) ([]calendar.Event, error)
}

// Renderer отрисовывает экраны диалога
type Renderer struct {
	store     *store.SignalStore
	chart     ChartService
	sentiment SentimentService
	calendar  CalendarService
	formatter *formatters.SignalFormatter
}

var _ conversation.Renderer = (*Renderer)(nil)

// NewRenderer создает отрисовщик экранов
func NewRenderer(st *store.SignalStore, chart ChartService, sentiment SentimentService,
	cal CalendarService, formatter *formatters.SignalFormatter) *Renderer {
	return &Renderer{
		store:     st,
		chart:     chart,
		sentiment: sentiment,
		calendar:  cal,
		formatter: formatter,
	}
}

// Render отрисовывает экран диалога для текущей сессии
func (r *Renderer) Render(ctx context.Context, sess *session.Session, st conversation.State) (conversation.Screen, error) {
	switch st {
	case conversation.StateMainMenu:
		return r.mainMenu(), nil
	case conversation.StateChooseAnalysisType:
		return r.chooseAnalysisType(), nil
	case conversation.StateChooseMarket:
		return r.chooseMarket(), nil
	case conversation.StateChooseInstrument:
		return r.chooseInstrument(sess), nil
	case conversation.StateChooseTimeframe:
		return r.chooseTimeframe(sess), nil
	case conversation.StateShowChart:
		return r.showChart(ctx, sess)
	case conversation.StateShowSentiment:
		return r.showSentiment(ctx, sess)
	case conversation.StateShowCalendar:
		return r.showCalendar(ctx)
	case conversation.StateSignalsMenu:
		return r.signalsMenu(sess), nil
	case conversation.StateAlertDetails:
		return r.alertDetails(ctx, sess)
	case conversation.StateAlertAnalysisMenu:
		return r.alertAnalysisMenu(sess), nil
	}
	return conversation.Screen{}, fmt.Errorf("неизвестный экран %s", st)
}

func (r *Renderer) mainMenu() conversation.Screen {
	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonAnalysis, constants.CallbackAnalysisOpen)).
		Row(buttons.Callback(constants.ButtonSignals, constants.CallbackSignalsMenu)).
		Row(buttons.Callback(constants.ButtonMySubs, constants.CallbackMySubs)).
		Build()

	return conversation.Screen{
		Text:     "👋 Добро пожаловать!\n\nВыберите раздел:",
		Keyboard: kb,
	}
}

func (r *Renderer) chooseAnalysisType() conversation.Screen {
	kb := buttons.NewBuilder().
		Row(buttons.CallbackParam(constants.ButtonTechnical, constants.CallbackAnalysisType, conversation.AnalysisTechnical)).
		Row(buttons.CallbackParam(constants.ButtonSentiment, constants.CallbackAnalysisType, conversation.AnalysisSentiment)).
		Row(buttons.CallbackParam(constants.ButtonCalendar, constants.CallbackAnalysisType, conversation.AnalysisCalendar)).
		Row(buttons.BackRow()...).
		Build()

	return conversation.Screen{
		Text:     "📊 Какой анализ интересует?",
		Keyboard: kb,
	}
}

func (r *Renderer) chooseMarket() conversation.Screen {
	b := buttons.NewBuilder()
	for _, rows := range buttons.Grid(constants.CallbackMarket, constants.Markets, 2) {
		b.Row(rows...)
	}
	b.Row(buttons.BackRow()...)

	return conversation.Screen{
		Text:     "🌍 Выберите рынок:",
		Keyboard: b.Build(),
	}
}

func (r *Renderer) chooseInstrument(sess *session.Session) conversation.Screen {
	instruments := constants.Instruments[sess.Scratch.Market]

	b := buttons.NewBuilder()
	for _, rows := range buttons.Grid(constants.CallbackInstrument, instruments, 2) {
		b.Row(rows...)
	}
	b.Row(buttons.BackRow()...)

	return conversation.Screen{
		Text:     fmt.Sprintf("💱 Рынок %s. Выберите инструмент:", sess.Scratch.Market),
		Keyboard: b.Build(),
	}
}

func (r *Renderer) chooseTimeframe(sess *session.Session) conversation.Screen {
	b := buttons.NewBuilder()
	for _, rows := range buttons.Grid(constants.CallbackTimeframe, constants.Timeframes, 4) {
		b.Row(rows...)
	}
	b.Row(buttons.BackRow()...)

	return conversation.Screen{
		Text:     fmt.Sprintf("⏱ %s. Выберите таймфрейм:", sess.EffectiveInstrument()),
		Keyboard: b.Build(),
	}
}

func (r *Renderer) showChart(ctx context.Context, sess *session.Session) (conversation.Screen, error) {
	instrument := sess.EffectiveInstrument()
	timeframe := sess.EffectiveTimeframe()

	photoURL, err := r.chart.Render(ctx, instrument, timeframe)
	if err != nil {
		return conversation.Screen{}, fmt.Errorf("график %s %s: %w", instrument, timeframe, err)
	}

	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonSubscribe, constants.CallbackSubscribe)).
		Row(buttons.BackRow()...).
		Build()
	return conversation.Screen{
		Text:     fmt.Sprintf("📉 %s · %s", instrument, timeframe),
		Keyboard: kb,
		PhotoURL: photoURL,
	}, nil
}

func (r *Renderer) showSentiment(ctx context.Context, sess *session.Session) (conversation.Screen, error) {
	instrument := sess.EffectiveInstrument()

	summary, err := r.sentiment.Analyze(ctx, instrument)
	if err != nil {
		return conversation.Screen{}, fmt.Errorf("настроения %s: %w", instrument, err)
	}

	kb := buttons.NewBuilder().Row(buttons.BackRow()...).Build()
	return conversation.Screen{
		Text:     fmt.Sprintf("🌡 %s\n\n%s", instrument, summary),
		Keyboard: kb,
	}, nil
}

func (r *Renderer) showCalendar(ctx context.Context) (conversation.Screen, error) {
	events, err := r.calendar.Events(ctx, time.Now())
	if err != nil {
		return conversation.Screen{}, fmt.Errorf("календарь: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📅 События на сегодня:\n\n")
	if len(events) == 0 {
		sb.WriteString("Важных событий нет.")
	}
	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("%s · %s · %s (%s)\n",
			ev.Time.Format("15:04"), ev.Currency, ev.Title, ev.Impact))
	}

	kb := buttons.NewBuilder().Row(buttons.BackRow()...).Build()
	return conversation.Screen{Text: sb.String(), Keyboard: kb}, nil
}

func (r *Renderer) signalsMenu(sess *session.Session) conversation.Screen {
	recent := r.store.Recent(sess.UserID, recentSignalsLimit)

	b := buttons.NewBuilder()
	var sb strings.Builder
	sb.WriteString("📈 Ваши последние сигналы:\n")

	if len(recent) == 0 {
		sb.WriteString("\nПока пусто. Сигналы появятся здесь после рассылки.")
	}
	for _, sig := range recent {
		b.Row(buttons.CallbackParam(
			r.formatter.FormatSignalShort(sig),
			constants.CallbackSignalView,
			sig.ID,
		))
	}
	b.Row(buttons.BackRow()...)

	return conversation.Screen{Text: sb.String(), Keyboard: b.Build()}
}

func (r *Renderer) alertDetails(ctx context.Context, sess *session.Session) (conversation.Screen, error) {
	sig, notice := r.resolveSignal(ctx, sess)

	kb := buttons.NewBuilder()
	var text string
	if sig != nil {
		text = r.formatter.FormatSignal(sig)
		kb.Row(buttons.CallbackParam(constants.ButtonAnalyzeAlert, constants.CallbackAlertAnalyze, sig.ID))
		kb.Row(buttons.Callback(constants.ButtonSubscribe, constants.CallbackSubscribe))
	} else {
		text = notice
	}
	kb.Row(buttons.BackRow()...)

	return conversation.Screen{Text: text, Keyboard: kb.Build()}, nil
}

func (r *Renderer) alertAnalysisMenu(sess *session.Session) conversation.Screen {
	ref := sess.EffectiveRef()

	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonTechnical, constants.CallbackShowChart)).
		Row(buttons.Callback(constants.ButtonSentiment, constants.CallbackShowSent)).
		Row(buttons.Callback(constants.ButtonCalendar, constants.CallbackShowCalendar)).
		Row(buttons.BackRow()...).
		Build()

	return conversation.Screen{
		Text:     fmt.Sprintf("🔍 Анализ сигнала %s %s %s.\nЧто посмотреть?", ref.Instrument, ref.Direction, ref.Timeframe),
		Keyboard: kb,
	}
}

// resolveSignal ищет сигнал по идентификатору, при промахе — по атрибутам.
// Когда сигнал не найден нигде, возвращает текст уведомления.
func (r *Renderer) resolveSignal(ctx context.Context, sess *session.Session) (*signals.Signal, string) {
	ref := sess.EffectiveRef()

	if ref.SignalID != "" {
		sig, err := r.store.GetByID(ctx, sess.UserID, ref.SignalID)
		if err == nil {
			return sig, ""
		}
		if !errors.Is(err, signals.ErrSignalNotFound) {
			logger.Warn("⚠️ Поиск сигнала %s: %v", ref.SignalID, err)
		}
	}

	sig, err := r.store.GetByFilter(ctx, sess.UserID, ref.Instrument, ref.Direction, ref.Timeframe)
	if err == nil {
		return sig, ""
	}
	if !errors.Is(err, signals.ErrSignalNotFound) {
		logger.Warn("⚠️ Поиск сигнала по атрибутам %s %s %s: %v",
			ref.Instrument, ref.Direction, ref.Timeframe, err)
	}

	return nil, "🔍 Сигнал не найден. Возможно, он устарел и был удалён."
}
