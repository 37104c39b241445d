// internal/core/domain/session/flow.go
package session

import (
	"forex-signals-bot/pkg/logger"
)

// SetFlow единственный мутатор флагов сценария: гасит все флаги,
// выставляет флаги нового сценария и вливает метаданные в scratch.
// Инвариант: флаги MENU и ALERT никогда не подняты одновременно.
func SetFlow(s *Session, flow FlowType, metadata map[string]string) {
	// Сначала гасим всё
	s.MenuFlow = false
	s.AlertFlow = false

	s.Flow = flow
	switch flow {
	case FlowMenu:
		s.MenuFlow = true
	case FlowAlert:
		s.AlertFlow = true
	case FlowUnknown:
		// оба флага остаются погашенными
	default:
		logger.Warn("⚠️ Неизвестный сценарий %q для пользователя %d", flow, s.UserID)
		s.Flow = FlowUnknown
	}

	for key, value := range metadata {
		s.ApplyParam(key, value)
	}

	// Ссылочные метаданные сигнала
	if metadata != nil {
		ref := s.Scratch.Ref
		if v, ok := metadata["ref_instrument"]; ok {
			ref.Instrument = v
		}
		if v, ok := metadata["ref_direction"]; ok {
			ref.Direction = v
		}
		if v, ok := metadata["ref_timeframe"]; ok {
			ref.Timeframe = v
		}
		if ref != s.Scratch.Ref {
			s.SetSignalRef(ref)
		}
	}
}

// GetFlow возвращает текущий сценарий сессии. Сначала читается явный
// маркер, при его отсутствии — устаревшие булевы флаги старых сессий.
func GetFlow(s *Session) FlowType {
	switch s.Flow {
	case FlowMenu, FlowAlert:
		return s.Flow
	}

	// Обратная совместимость со старым форматом сессий
	if s.AlertFlow {
		return FlowAlert
	}
	if s.MenuFlow {
		return FlowMenu
	}
	return FlowUnknown
}
