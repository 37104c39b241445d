// internal/core/domain/conversation/states.go
package conversation

// State экран диалога
type State string

const (
	StateMainMenu           State = "MAIN_MENU"
	StateChooseAnalysisType State = "CHOOSE_ANALYSIS_TYPE"
	StateChooseMarket       State = "CHOOSE_MARKET"
	StateChooseInstrument   State = "CHOOSE_INSTRUMENT"
	StateChooseTimeframe    State = "CHOOSE_TIMEFRAME"
	StateShowChart          State = "SHOW_CHART"
	StateShowSentiment      State = "SHOW_SENTIMENT"
	StateShowCalendar       State = "SHOW_CALENDAR"
	StateSignalsMenu        State = "SIGNALS_MENU"
	StateAlertDetails       State = "ALERT_DETAILS"
	StateAlertAnalysisMenu  State = "ALERT_ANALYSIS_MENU"
)

// Action действие пользователя, переводящее машину между экранами
type Action string

const (
	ActionStart            Action = "start"
	ActionOpenAnalysis     Action = "open_analysis"
	ActionPickAnalysisType Action = "pick_analysis_type"
	ActionPickMarket       Action = "pick_market"
	ActionPickInstrument   Action = "pick_instrument"
	ActionPickTimeframe    Action = "pick_timeframe"
	ActionSignalsMenu      Action = "signals_menu"
	ActionViewSignal       Action = "view_signal"
	ActionAnalyzeSignal    Action = "analyze_signal"
	ActionShowChart        Action = "show_chart"
	ActionShowSentiment    Action = "show_sentiment"
	ActionShowCalendar     Action = "show_calendar"
)

// Типы анализа
const (
	AnalysisTechnical = "technical"
	AnalysisSentiment = "sentiment"
	AnalysisCalendar  = "calendar"
)

// transitions статическая таблица переходов
var transitions = map[State]map[Action]State{
	StateMainMenu: {
		ActionOpenAnalysis: StateChooseAnalysisType,
		ActionSignalsMenu:  StateSignalsMenu,
	},
	StateChooseAnalysisType: {
		// Для calendar цель уточняется динамически: у календаря нет
		// выбора рынка, переход сразу на экран событий
		ActionPickAnalysisType: StateChooseMarket,
	},
	StateChooseMarket: {
		ActionPickMarket: StateChooseInstrument,
	},
	StateChooseInstrument: {
		// Для sentiment цель уточняется динамически: таймфрейм не нужен
		ActionPickInstrument: StateChooseTimeframe,
	},
	StateChooseTimeframe: {
		ActionPickTimeframe: StateShowChart,
	},
	StateSignalsMenu: {
		ActionViewSignal: StateAlertDetails,
	},
	StateAlertDetails: {
		ActionAnalyzeSignal: StateAlertAnalysisMenu,
	},
	StateAlertAnalysisMenu: {
		ActionShowChart:     StateShowChart,
		ActionShowSentiment: StateShowSentiment,
		ActionShowCalendar:  StateShowCalendar,
	},
}

// backTargets родитель каждого экрана для действия "Назад".
// Исключение для сценария ALERT применяется в Machine.Back.
var backTargets = map[State]State{
	StateMainMenu:           StateMainMenu,
	StateChooseAnalysisType: StateMainMenu,
	StateChooseMarket:       StateChooseAnalysisType,
	StateChooseInstrument:   StateChooseMarket,
	StateChooseTimeframe:    StateChooseInstrument,
	StateShowChart:          StateChooseTimeframe,
	StateShowSentiment:      StateChooseInstrument,
	StateShowCalendar:       StateChooseAnalysisType,
	StateSignalsMenu:        StateMainMenu,
	StateAlertDetails:       StateSignalsMenu,
	StateAlertAnalysisMenu:  StateAlertDetails,
}
