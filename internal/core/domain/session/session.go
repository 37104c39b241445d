// internal/core/domain/session/session.go
package session

import (
	"time"
)

// FlowType верхнеуровневый сценарий, в котором находится сессия
type FlowType string

const (
	FlowMenu    FlowType = "menu"
	FlowAlert   FlowType = "alert"
	FlowUnknown FlowType = "unknown"
)

// SignalRef ссылка на сигнал, к которому привязан drill-down
type SignalRef struct {
	SignalID   string `json:"signal_id,omitempty"`
	Instrument string `json:"instrument,omitempty"`
	Direction  string `json:"direction,omitempty"`
	Timeframe  string `json:"timeframe,omitempty"`
}

// IsEmpty проверяет, пустая ли ссылка
func (r SignalRef) IsEmpty() bool {
	return r == SignalRef{}
}

// ScratchData рабочие данные диалога. Ref — первичные ссылки на сигнал,
// RefBackup — резервные копии: переживают сброс первичных и затираются
// только новой непустой записью.
type ScratchData struct {
	Market       string `json:"market,omitempty"`
	Instrument   string `json:"instrument,omitempty"`
	Timeframe    string `json:"timeframe,omitempty"`
	AnalysisType string `json:"analysis_type,omitempty"`

	Ref       SignalRef `json:"ref,omitempty"`
	RefBackup SignalRef `json:"ref_backup,omitempty"`
}

// Session состояние диалога одного пользователя. Создается при первом
// обращении, никогда явно не удаляется: после перезапуска процесса
// диалог продолжается с того же места.
type Session struct {
	UserID int64 `json:"user_id"`
	ChatID int64 `json:"chat_id"`

	State string   `json:"state"`
	Flow  FlowType `json:"flow"` // явный маркер сценария

	// Устаревшие флаги, поддерживаются для старых сессий
	MenuFlow  bool `json:"menu_flow"`
	AlertFlow bool `json:"alert_flow"`

	Scratch ScratchData `json:"scratch"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession создает сессию нового пользователя
func NewSession(userID, chatID int64) *Session {
	now := time.Now()
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		Flow:      FlowUnknown,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetSignalRef записывает первичную ссылку на сигнал. Непустые поля
// дублируются в резервную копию, пустые резерв не трогают.
func (s *Session) SetSignalRef(ref SignalRef) {
	s.Scratch.Ref = ref

	if ref.SignalID != "" {
		s.Scratch.RefBackup.SignalID = ref.SignalID
	}
	if ref.Instrument != "" {
		s.Scratch.RefBackup.Instrument = ref.Instrument
	}
	if ref.Direction != "" {
		s.Scratch.RefBackup.Direction = ref.Direction
	}
	if ref.Timeframe != "" {
		s.Scratch.RefBackup.Timeframe = ref.Timeframe
	}
}

// ResetPrimaryRefs сбрасывает первичные ссылки, резерв сохраняется
func (s *Session) ResetPrimaryRefs() {
	s.Scratch.Ref = SignalRef{}
}

// ResetScratch полный сброс рабочих данных, включая резервные копии.
// Выполняется действием старта/главного меню.
func (s *Session) ResetScratch() {
	s.Scratch = ScratchData{}
}

// EffectiveRef возвращает ссылку на сигнал: первичное значение поля,
// при его отсутствии — резервное
func (s *Session) EffectiveRef() SignalRef {
	ref := s.Scratch.Ref
	backup := s.Scratch.RefBackup

	if ref.SignalID == "" {
		ref.SignalID = backup.SignalID
	}
	if ref.Instrument == "" {
		ref.Instrument = backup.Instrument
	}
	if ref.Direction == "" {
		ref.Direction = backup.Direction
	}
	if ref.Timeframe == "" {
		ref.Timeframe = backup.Timeframe
	}
	return ref
}

// EffectiveInstrument инструмент из scratch либо из ссылки на сигнал
func (s *Session) EffectiveInstrument() string {
	if s.Scratch.Instrument != "" {
		return s.Scratch.Instrument
	}
	return s.EffectiveRef().Instrument
}

// EffectiveTimeframe таймфрейм из scratch либо из ссылки на сигнал
func (s *Session) EffectiveTimeframe() string {
	if s.Scratch.Timeframe != "" {
		return s.Scratch.Timeframe
	}
	return s.EffectiveRef().Timeframe
}

// ApplyParam записывает извлеченный из callback параметр в scratch
func (s *Session) ApplyParam(key, value string) {
	switch key {
	case "market":
		s.Scratch.Market = value
	case "instrument":
		s.Scratch.Instrument = value
	case "timeframe":
		s.Scratch.Timeframe = value
	case "analysis_type":
		s.Scratch.AnalysisType = value
	case "signal_id":
		ref := s.Scratch.Ref
		ref.SignalID = value
		s.SetSignalRef(ref)
	}
}
