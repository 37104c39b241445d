// internal/core/domain/conversation/machine.go
package conversation

import (
	"context"
	"fmt"

	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/pkg/logger"
)

// Screen результат отрисовки экрана
type Screen struct {
	Text     string
	Keyboard interface{}
	PhotoURL string
}

// Renderer отрисовывает экран для текущей сессии
type Renderer interface {
	Render(ctx context.Context, sess *session.Session, st State) (Screen, error)
}

// Machine конечный автомат диалога. Переходы детерминированы таблицей,
// правило "Назад" зависит от сценария и вычисляется один раз на действие.
type Machine struct {
	renderer Renderer
}

// NewMachine создает машину диалога
func NewMachine(renderer Renderer) *Machine {
	return &Machine{renderer: renderer}
}

// Current возвращает состояние сессии (новые сессии начинают с главного меню)
func (m *Machine) Current(sess *session.Session) State {
	if sess.State == "" {
		return StateMainMenu
	}
	return State(sess.State)
}

// Advance выполняет действие и отрисовывает следующий экран.
// Нераспознанное в текущем состоянии действие — no-op с повторной
// отрисовкой текущего экрана.
func (m *Machine) Advance(ctx context.Context, sess *session.Session, action Action) Screen {
	current := m.Current(sess)
	target, ok := m.next(sess, current, action)
	if !ok {
		logger.Warn("⚠️ Действие %q не распознано в состоянии %s (пользователь %d)",
			action, current, sess.UserID)
		return m.settle(ctx, sess, current)
	}
	return m.settle(ctx, sess, target)
}

// Back выполняет действие "Назад". Обычная цель — родительский экран;
// в сценарии ALERT экраны анализа возвращают в меню анализа сигнала,
// минуя цепочку рынок/инструмент.
func (m *Machine) Back(ctx context.Context, sess *session.Session) Screen {
	current := m.Current(sess)

	target, ok := backTargets[current]
	if !ok {
		target = StateMainMenu
	}

	// Единственная точка применения сценарного правила "Назад"
	if session.GetFlow(sess) == session.FlowAlert && isAnalysisScreen(current) {
		target = StateAlertAnalysisMenu
	}

	return m.settle(ctx, sess, target)
}

// Reset полный сброс: главное меню, рабочие данные стерты целиком
func (m *Machine) Reset(ctx context.Context, sess *session.Session) Screen {
	sess.ResetScratch()
	session.SetFlow(sess, session.FlowMenu, nil)
	return m.settle(ctx, sess, StateMainMenu)
}

// next вычисляет цель перехода
func (m *Machine) next(sess *session.Session, current State, action Action) (State, bool) {
	// Действия, допустимые из любого состояния: кнопка "Анализировать"
	// живет на отправленном сообщении сигнала и может прийти когда угодно
	switch action {
	case ActionStart:
		return StateMainMenu, true
	case ActionAnalyzeSignal:
		return StateAlertAnalysisMenu, true
	}

	// Экраны анализа доступны напрямую в сценарии ALERT независимо от
	// того, где сессию застало нажатие
	if session.GetFlow(sess) == session.FlowAlert {
		switch action {
		case ActionShowChart:
			return StateShowChart, true
		case ActionShowSentiment:
			return StateShowSentiment, true
		case ActionShowCalendar:
			return StateShowCalendar, true
		}
	}

	target, ok := transitions[current][action]
	if !ok {
		return current, false
	}

	// Динамические уточнения таблицы
	switch {
	case action == ActionPickAnalysisType && sess.Scratch.AnalysisType == AnalysisCalendar:
		// У календаря нет фильтра по рынку
		target = StateShowCalendar
	case action == ActionPickInstrument && sess.Scratch.AnalysisType == AnalysisSentiment:
		// Сентименту таймфрейм не нужен
		target = StateShowSentiment
	}

	return target, true
}

// settle применяет ограждения, фиксирует состояние и отрисовывает экран
func (m *Machine) settle(ctx context.Context, sess *session.Session, target State) Screen {
	target = m.guard(sess, target)
	sess.State = string(target)

	screen, err := m.render(ctx, sess, target)
	if err == nil {
		return screen
	}

	// Ошибка отрисовки: откат на главное меню с общим уведомлением
	logger.Error("❌ Ошибка отрисовки экрана %s (пользователь %d): %v", target, sess.UserID, err)
	sess.State = string(StateMainMenu)

	screen, err = m.render(ctx, sess, StateMainMenu)
	if err != nil {
		logger.Error("❌ Не удалось отрисовать даже главное меню: %v", err)
		return Screen{Text: "⚠️ Что-то пошло не так. Отправьте /start, чтобы начать заново."}
	}
	screen.Text = "⚠️ Что-то пошло не так, возвращаю в главное меню.\n\n" + screen.Text
	return screen
}

// guard проверяет, достаточно ли рабочих данных для целевого экрана.
// При нехватке машина не падает, а уводит на ближайший экран-предок,
// способный восстановить недостающее.
func (m *Machine) guard(sess *session.Session, target State) State {
	// Цепочка редиректов конечна: каждый шаг поднимается строго вверх
	for i := 0; i < 4; i++ {
		redirect, ok := m.missingDataRedirect(sess, target)
		if !ok {
			return target
		}
		logger.Warn("⚠️ Экран %s без необходимых данных, редирект на %s (пользователь %d)",
			target, redirect, sess.UserID)
		target = redirect
	}
	return target
}

func (m *Machine) missingDataRedirect(sess *session.Session, target State) (State, bool) {
	switch target {
	case StateChooseInstrument:
		if sess.Scratch.Market == "" {
			return StateChooseMarket, true
		}
	case StateChooseTimeframe:
		if sess.EffectiveInstrument() == "" {
			return StateChooseInstrument, true
		}
	case StateShowChart:
		if sess.EffectiveInstrument() == "" {
			return StateChooseInstrument, true
		}
		if sess.EffectiveTimeframe() == "" {
			return StateChooseTimeframe, true
		}
	case StateShowSentiment:
		if sess.EffectiveInstrument() == "" {
			return StateChooseInstrument, true
		}
	case StateAlertDetails, StateAlertAnalysisMenu:
		if sess.EffectiveRef().IsEmpty() {
			return StateSignalsMenu, true
		}
	}
	return target, false
}

// render вызывает Renderer, перехватывая панику отрисовщика
func (m *Machine) render(ctx context.Context, sess *session.Session, st State) (screen Screen, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника при отрисовке %s: %v", st, r)
		}
	}()
	return m.renderer.Render(ctx, sess, st)
}

// isAnalysisScreen проверяет, экран ли это анализа (график/сентимент/календарь)
func isAnalysisScreen(st State) bool {
	return st == StateShowChart || st == StateShowSentiment || st == StateShowCalendar
}
