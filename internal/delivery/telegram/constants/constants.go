// internal/delivery/telegram/constants/constants.go
package constants

// Callback токены inline кнопок.
// Параметризованные токены имеют вид "токен:значение".
const (
	CallbackMainMenu     = "menu_main"
	CallbackAnalysisOpen = "analysis_open"
	CallbackAnalysisType = "analysis_type"
	CallbackMarket       = "market"
	CallbackInstrument   = "instrument"
	CallbackTimeframe    = "timeframe"
	CallbackSignalsMenu  = "signals_menu"
	CallbackSignalView   = "signal_view"
	CallbackAlertAnalyze = "alert_analyze"
	CallbackShowChart    = "show_technical"
	CallbackShowSent     = "show_sentiment"
	CallbackShowCalendar = "show_calendar"
	CallbackBack         = "back"
	CallbackSubscribe    = "subscribe"
	CallbackMySubs       = "my_subs"
)

// Тексты кнопок
const (
	ButtonMainMenu     = "🏠 Главное меню"
	ButtonAnalysis     = "📊 Анализ рынка"
	ButtonSignals      = "📈 Мои сигналы"
	ButtonTechnical    = "📉 Технический анализ"
	ButtonSentiment    = "🌡 Настроения"
	ButtonCalendar     = "📅 Календарь"
	ButtonBack         = "◀️ Назад"
	ButtonSubscribe    = "🔔 Подписаться"
	ButtonMySubs       = "📋 Мои подписки"
	ButtonAnalyzeAlert = "🔍 Анализировать"
)

// Рынки
var Markets = []string{"FOREX", "CRYPTO", "INDICES", "COMMODITIES"}

// Инструменты по рынкам
var Instruments = map[string][]string{
	"FOREX":       {"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD", "NZDUSD", "USDCHF"},
	"CRYPTO":      {"BTCUSD", "ETHUSD", "SOLUSD", "XRPUSD"},
	"INDICES":     {"US30", "NAS100", "SPX500", "GER40"},
	"COMMODITIES": {"XAUUSD", "XAGUSD", "USOIL"},
}

// Таймфреймы
var Timeframes = []string{"15m", "1h", "4h", "1d"}
