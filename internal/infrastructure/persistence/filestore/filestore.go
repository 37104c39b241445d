// internal/infrastructure/persistence/filestore/filestore.go
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"forex-signals-bot/internal/core/domain/signals"
)

// FileStore долговременные файловые ярусы хранилища сигналов:
// центральный файл signals.json и пользовательские users/<id>.json.
// Записи идемпотентны по id, последняя запись побеждает.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore создает файловое хранилище в каталоге dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "users"), 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог данных: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) centralPath() string {
	return filepath.Join(fs.dir, "signals.json")
}

func (fs *FileStore) userPath(userID int64) string {
	return filepath.Join(fs.dir, "users", fmt.Sprintf("%d.json", userID))
}

// SaveCentral сохраняет сигнал в центральный файл
func (fs *FileStore) SaveCentral(sig *signals.Signal) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.save(fs.centralPath(), sig)
}

// SaveUser сохраняет сигнал в файл пользователя
func (fs *FileStore) SaveUser(userID int64, sig *signals.Signal) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.save(fs.userPath(userID), sig)
}

// GetCentral ищет сигнал в центральном файле
func (fs *FileStore) GetCentral(id string) (*signals.Signal, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.get(fs.centralPath(), id)
}

// GetUser ищет сигнал в файле пользователя
func (fs *FileStore) GetUser(userID int64, id string) (*signals.Signal, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.get(fs.userPath(userID), id)
}

// ListUser возвращает все сигналы из файла пользователя
func (fs *FileStore) ListUser(userID int64) ([]*signals.Signal, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.load(fs.userPath(userID))
	if err != nil {
		return nil, err
	}
	result := make([]*signals.Signal, 0, len(records))
	for _, sig := range records {
		result = append(result, sig)
	}
	return result, nil
}

// ListCentral возвращает все сигналы из центрального файла
func (fs *FileStore) ListCentral() ([]*signals.Signal, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.load(fs.centralPath())
	if err != nil {
		return nil, err
	}
	result := make([]*signals.Signal, 0, len(records))
	for _, sig := range records {
		result = append(result, sig)
	}
	return result, nil
}

// Cleanup удаляет из всех файлов сигналы старше cutoff.
// Возвращает количество удаленных записей.
func (fs *FileStore) Cleanup(cutoff time.Time) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	removed, err := fs.cleanupFile(fs.centralPath(), cutoff)
	if err != nil {
		return removed, err
	}

	entries, err := os.ReadDir(filepath.Join(fs.dir, "users"))
	if err != nil {
		return removed, fmt.Errorf("не удалось прочитать каталог пользователей: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, err := fs.cleanupFile(filepath.Join(fs.dir, "users", entry.Name()), cutoff)
		removed += n
		if err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// ============================================
// ВНУТРЕННИЕ МЕТОДЫ (вызываются под mu)
// ============================================

func (fs *FileStore) load(path string) (map[string]*signals.Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*signals.Signal{}, nil
		}
		return nil, fmt.Errorf("не удалось прочитать %s: %w", path, err)
	}

	records := map[string]*signals.Signal{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("повреждённый файл %s: %w", path, err)
	}
	return records, nil
}

func (fs *FileStore) store(path string, records map[string]*signals.Signal) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать сигналы: %w", err)
	}

	// Пишем через временный файл, чтобы не оставить битый JSON
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func (fs *FileStore) save(path string, sig *signals.Signal) error {
	records, err := fs.load(path)
	if err != nil {
		return err
	}
	records[sig.ID] = sig
	return fs.store(path, records)
}

func (fs *FileStore) get(path, id string) (*signals.Signal, error) {
	records, err := fs.load(path)
	if err != nil {
		return nil, err
	}
	sig, exists := records[id]
	if !exists {
		return nil, signals.ErrSignalNotFound
	}
	return sig, nil
}

func (fs *FileStore) cleanupFile(path string, cutoff time.Time) (int, error) {
	records, err := fs.load(path)
	if err != nil {
		return 0, err
	}

	removed := 0
	for id, sig := range records {
		if sig.CreatedAt.Before(cutoff) {
			delete(records, id)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, fs.store(path, records)
}
