// pkg/logger/global.go
package logger

import (
	stdlog "log"
	"sync"
)

var (
	defaultLogger *Logger
	mu            sync.RWMutex
)

// Init устанавливает глобальный логгер приложения
func Init(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

func get() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Пакетные функции делегируют в глобальный логгер.
// До Init() сообщения уходят в стандартный log.

func Debug(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Debug(format, v...)
		return
	}
	stdlog.Printf("[DEBUG] "+format, v...)
}

func Info(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Info(format, v...)
		return
	}
	stdlog.Printf("[INFO] "+format, v...)
}

func Warn(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Warn(format, v...)
		return
	}
	stdlog.Printf("[WARN] "+format, v...)
}

func Error(format string, v ...interface{}) {
	if l := get(); l != nil {
		l.Error(format, v...)
		return
	}
	stdlog.Printf("[ERROR] "+format, v...)
}

func Signal(instrument, direction, timeframe string, recipients int) {
	if l := get(); l != nil {
		l.Signal(instrument, direction, timeframe, recipients)
		return
	}
	stdlog.Printf("[SIGNAL] %s %s %s → получателей: %d", instrument, direction, timeframe, recipients)
}
