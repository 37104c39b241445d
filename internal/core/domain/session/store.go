// internal/core/domain/session/store.go
package session

import (
	"context"
	"sync"
	"time"

	"forex-signals-bot/pkg/logger"
)

// PersistentTier долговременное хранилище сессий (Redis).
// Load возвращает (nil, nil), если сессии нет.
type PersistentTier interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, userID int64) (*Session, error)
}

// Store хранилище сессий: карта в памяти со сквозной записью в
// долговременный ярус. Сессии не удаляются — перезапуск процесса
// продолжает диалог с сохраненного места.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	persist PersistentTier // nil — только память
}

// NewStore создает хранилище сессий
func NewStore(persist PersistentTier) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		persist:  persist,
	}
}

// Get возвращает сессию пользователя: память → долговременный ярус →
// новая сессия. Новая сессия сразу сохраняется.
func (st *Store) Get(ctx context.Context, userID, chatID int64) *Session {
	st.mu.RLock()
	s, exists := st.sessions[userID]
	st.mu.RUnlock()
	if exists {
		return s
	}

	if st.persist != nil {
		loaded, err := st.persist.Load(ctx, userID)
		if err != nil {
			logger.Warn("⚠️ Не удалось загрузить сессию %d: %v", userID, err)
		} else if loaded != nil {
			st.mu.Lock()
			st.sessions[userID] = loaded
			st.mu.Unlock()
			logger.Debug("Сессия %d восстановлена из долговременного хранилища", userID)
			return loaded
		}
	}

	s = NewSession(userID, chatID)
	st.mu.Lock()
	st.sessions[userID] = s
	st.mu.Unlock()

	if err := st.Save(ctx, s); err != nil {
		logger.Warn("⚠️ Не удалось сохранить новую сессию %d: %v", userID, err)
	}
	return s
}

// Save сохраняет сессию в память и долговременный ярус
func (st *Store) Save(ctx context.Context, s *Session) error {
	s.UpdatedAt = time.Now()

	st.mu.Lock()
	st.sessions[s.UserID] = s
	st.mu.Unlock()

	if st.persist == nil {
		return nil
	}
	return st.persist.Save(ctx, s)
}
