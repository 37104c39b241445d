// internal/core/domain/signals/store/store.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"forex-signals-bot/internal/core/domain/signals"
	"forex-signals-bot/pkg/logger"
)

// CentralOwner владелец центральных записей в кэше и ярусах
const CentralOwner int64 = 0

// FileTier долговременные файловые ярусы (пользовательский + центральный)
type FileTier interface {
	SaveCentral(sig *signals.Signal) error
	SaveUser(userID int64, sig *signals.Signal) error
	GetCentral(id string) (*signals.Signal, error)
	GetUser(userID int64, id string) (*signals.Signal, error)
	ListUser(userID int64) ([]*signals.Signal, error)
	ListCentral() ([]*signals.Signal, error)
	Cleanup(cutoff time.Time) (int, error)
}

// DBRepository последний ярус поиска — база данных
type DBRepository interface {
	Save(ctx context.Context, userID int64, sig *signals.Signal) error
	GetByID(ctx context.Context, userID int64, id string) (*signals.Signal, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SignalStore многоярусное хранилище сигналов:
// кэш в памяти → файл пользователя → центральный файл → база данных.
// Ошибка яруса трактуется как промах этого яруса, цепочка продолжается.
type SignalStore struct {
	mu    sync.RWMutex
	cache map[int64]map[string]*signals.Signal

	files FileTier     // nil — файловые ярусы отключены
	db    DBRepository // nil — ярус БД отключен
}

// NewSignalStore создает хранилище поверх файловых ярусов и БД
func NewSignalStore(files FileTier, db DBRepository) *SignalStore {
	return &SignalStore{
		cache: make(map[int64]map[string]*signals.Signal),
		files: files,
		db:    db,
	}
}

// Put сквозная запись во все ярусы. Идемпотентна по (userID, sig.ID).
// Ошибка возвращается только если отказали все ярусы.
func (s *SignalStore) Put(ctx context.Context, userID int64, sig *signals.Signal) error {
	stored := sig.Clone()
	succeeded := 0

	// Кэш в памяти
	s.cacheSet(userID, stored)
	succeeded++

	// Файловые ярусы
	if s.files != nil {
		if userID != CentralOwner {
			if err := s.files.SaveUser(userID, stored); err != nil {
				logger.Warn("⚠️ Файл пользователя %d: ошибка записи сигнала %s: %v", userID, sig.ID, err)
			} else {
				succeeded++
			}
		}
		if err := s.files.SaveCentral(stored); err != nil {
			logger.Warn("⚠️ Центральный файл: ошибка записи сигнала %s: %v", sig.ID, err)
		} else {
			succeeded++
		}
	}

	// База данных
	if s.db != nil {
		if err := s.db.Save(ctx, userID, stored); err != nil {
			logger.Warn("⚠️ БД: ошибка записи сигнала %s: %v", sig.ID, err)
		} else {
			succeeded++
		}
	}

	if succeeded == 0 {
		return signals.ErrTierUnavailable
	}
	return nil
}

// GetByID ищет сигнал по id в порядке ярусов, заполняя обойдённые
// быстрые ярусы при попадании. Не возвращает ошибок кроме ErrSignalNotFound.
func (s *SignalStore) GetByID(ctx context.Context, userID int64, id string) (*signals.Signal, error) {
	// 1. Кэш в памяти (пользовательский, затем центральный)
	if sig := s.cacheGet(userID, id); sig != nil {
		return sig, nil
	}
	if sig := s.cacheGet(CentralOwner, id); sig != nil {
		s.cacheSet(userID, sig)
		return sig, nil
	}

	if s.files != nil {
		// 2. Файл пользователя
		if sig, err := s.files.GetUser(userID, id); err == nil {
			s.cacheSet(userID, sig)
			return sig, nil
		} else if err != signals.ErrSignalNotFound {
			logger.Warn("⚠️ Файл пользователя %d: ошибка чтения сигнала %s: %v", userID, id, err)
		}

		// 3. Центральный файл
		if sig, err := s.files.GetCentral(id); err == nil {
			s.backfill(userID, sig, false)
			return sig, nil
		} else if err != signals.ErrSignalNotFound {
			logger.Warn("⚠️ Центральный файл: ошибка чтения сигнала %s: %v", id, err)
		}
	}

	// 4. База данных
	if s.db != nil {
		if sig, err := s.db.GetByID(ctx, userID, id); err == nil {
			s.backfill(userID, sig, true)
			return sig, nil
		} else if err != signals.ErrSignalNotFound {
			logger.Warn("⚠️ БД: ошибка чтения сигнала %s: %v", id, err)
		}
	}

	return nil, signals.ErrSignalNotFound
}

// GetByFilter ищет новейший сигнал пользователя по инструменту и
// необязательным направлению/таймфрейму. При нуле совпадений все
// необязательные фильтры отбрасываются разом и поиск повторяется
// только по инструменту — это штатное поведение восстановления после
// устаревших данных сессии, а не оптимизация.
func (s *SignalStore) GetByFilter(ctx context.Context, userID int64, instrument, direction, timeframe string) (*signals.Signal, error) {
	known := s.knownSignals(userID)
	if len(known) == 0 {
		return nil, signals.ErrSignalNotFound
	}

	if sig := pickNewest(known, instrument, direction, timeframe); sig != nil {
		return sig, nil
	}

	// Расширение поиска: один раз, всё или ничего
	if direction != "" || timeframe != "" {
		logger.Debug("Расширение поиска: %s без направления/таймфрейма", instrument)
		if sig := pickNewest(known, instrument, "", ""); sig != nil {
			return sig, nil
		}
	}

	return nil, signals.ErrSignalNotFound
}

// Recent возвращает известные пользователю сигналы, новейшие первыми
func (s *SignalStore) Recent(userID int64, limit int) []*signals.Signal {
	known := s.knownSignals(userID)

	result := make([]*signals.Signal, 0, len(known))
	for _, sig := range known {
		result = append(result, sig)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// ResetCache сбрасывает кэш в памяти (следующие чтения уйдут в файлы/БД)
func (s *SignalStore) ResetCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[int64]map[string]*signals.Signal)
}

// StartCleanupRoutine запускает периодическую очистку сигналов старше retention
func (s *SignalStore) StartCleanupRoutine(ctx context.Context, interval, retention time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanup(ctx, time.Now().Add(-retention))
			}
		}
	}()
}

func (s *SignalStore) cleanup(ctx context.Context, cutoff time.Time) {
	s.mu.Lock()
	for owner, userCache := range s.cache {
		for id, sig := range userCache {
			if sig.CreatedAt.Before(cutoff) {
				delete(userCache, id)
			}
		}
		if len(userCache) == 0 {
			delete(s.cache, owner)
		}
	}
	s.mu.Unlock()

	if s.files != nil {
		if removed, err := s.files.Cleanup(cutoff); err != nil {
			logger.Warn("⚠️ Очистка файловых ярусов: %v", err)
		} else if removed > 0 {
			logger.Info("🧹 Удалено устаревших сигналов из файлов: %d", removed)
		}
	}
	if s.db != nil {
		if removed, err := s.db.DeleteOlderThan(ctx, cutoff); err != nil {
			logger.Warn("⚠️ Очистка БД: %v", err)
		} else if removed > 0 {
			logger.Info("🧹 Удалено устаревших сигналов из БД: %d", removed)
		}
	}
}

// ============================================
// ВНУТРЕННИЕ МЕТОДЫ
// ============================================

func (s *SignalStore) cacheGet(owner int64, id string) *signals.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if userCache, exists := s.cache[owner]; exists {
		if sig, ok := userCache[id]; ok {
			return sig
		}
	}
	return nil
}

func (s *SignalStore) cacheSet(owner int64, sig *signals.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[owner]; !exists {
		s.cache[owner] = make(map[string]*signals.Signal)
	}
	s.cache[owner][sig.ID] = sig
}

// backfill дозаписывает сигнал в быстрые ярусы, обойдённые при поиске.
// central — был ли обойдён и центральный файл (попадание в БД).
func (s *SignalStore) backfill(userID int64, sig *signals.Signal, central bool) {
	s.cacheSet(userID, sig)
	if s.files == nil {
		return
	}
	if userID != CentralOwner {
		if err := s.files.SaveUser(userID, sig); err != nil {
			logger.Debug("Дозапись в файл пользователя %d не удалась: %v", userID, err)
		}
	}
	if central {
		if err := s.files.SaveCentral(sig); err != nil {
			logger.Debug("Дозапись в центральный файл не удалась: %v", err)
		}
	}
}

// knownSignals собирает известные пользователю сигналы из кэша и файлов
func (s *SignalStore) knownSignals(userID int64) map[string]*signals.Signal {
	merged := make(map[string]*signals.Signal)

	if s.files != nil {
		if list, err := s.files.ListCentral(); err != nil {
			logger.Warn("⚠️ Центральный файл: ошибка перечисления: %v", err)
		} else {
			for _, sig := range list {
				merged[sig.ID] = sig
			}
		}
		if list, err := s.files.ListUser(userID); err != nil {
			logger.Warn("⚠️ Файл пользователя %d: ошибка перечисления: %v", userID, err)
		} else {
			for _, sig := range list {
				merged[sig.ID] = sig
			}
		}
	}

	// Кэш поверх файлов: свежее заведомо не старее записанного
	s.mu.RLock()
	for _, owner := range []int64{CentralOwner, userID} {
		for id, sig := range s.cache[owner] {
			merged[id] = sig
		}
	}
	s.mu.RUnlock()

	return merged
}

// pickNewest выбирает новейший сигнал, совпадающий по инструменту
// и заданным необязательным фильтрам
func pickNewest(known map[string]*signals.Signal, instrument, direction, timeframe string) *signals.Signal {
	var newest *signals.Signal
	for _, sig := range known {
		if !strings.EqualFold(sig.Instrument, instrument) {
			continue
		}
		if direction != "" && sig.Direction != direction {
			continue
		}
		if timeframe != "" && sig.Timeframe != timeframe {
			continue
		}
		if newest == nil || sig.CreatedAt.After(newest.CreatedAt) {
			newest = sig
		}
	}
	return newest
}
