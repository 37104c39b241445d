// internal/core/domain/signals/errors.go
package signals

import (
	"errors"
	"fmt"
)

var (
	// ErrSignalNotFound сигнал не найден ни в одном ярусе хранилища
	ErrSignalNotFound = errors.New("сигнал не найден")

	// ErrTierUnavailable ярус хранилища недоступен (трактуется как промах)
	ErrTierUnavailable = errors.New("ярус хранилища недоступен")
)

// ValidationError ошибка валидации входящего сигнала.
// Возвращается вызывающему HTTP приёма как клиентская ошибка.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("некорректный сигнал: поле %s: %s", e.Field, e.Reason)
}

// NewValidationError создает ошибку валидации
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
