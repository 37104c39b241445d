// internal/infrastructure/persistence/filestore/filestore_test.go
package filestore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-signals-bot/internal/core/domain/signals"
)

func signalAt(instrument string, createdAt time.Time) *signals.Signal {
	return &signals.Signal{
		ID:         signals.BuildID(instrument, "BUY", "1h", createdAt),
		Instrument: instrument,
		Direction:  "BUY",
		Entry:      decimal.NewFromFloat(1.0850),
		StopLoss:   decimal.NewFromFloat(1.0800),
		Timeframe:  "1h",
		Market:     signals.DetectMarket(instrument),
		CreatedAt:  createdAt,
	}
}

func TestFileStore_CentralAndUserFiles(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	sig := signalAt("EURUSD", now)

	require.NoError(t, fs.SaveCentral(sig))
	require.NoError(t, fs.SaveUser(42, sig))

	t.Run("чтение из центрального файла", func(t *testing.T) {
		got, err := fs.GetCentral(sig.ID)
		require.NoError(t, err)
		assert.Equal(t, "EURUSD", got.Instrument)
	})

	t.Run("чтение из файла пользователя", func(t *testing.T) {
		got, err := fs.GetUser(42, sig.ID)
		require.NoError(t, err)
		assert.Equal(t, sig.ID, got.ID)
	})

	t.Run("чужой файл пользователя пуст", func(t *testing.T) {
		_, err := fs.GetUser(77, sig.ID)
		assert.ErrorIs(t, err, signals.ErrSignalNotFound)
	})

	t.Run("повторная запись не плодит дубликатов", func(t *testing.T) {
		require.NoError(t, fs.SaveCentral(sig))
		list, err := fs.ListCentral()
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestFileStore_Cleanup(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	old := signalAt("EURUSD", now.Add(-48*time.Hour))
	fresh := signalAt("GBPUSD", now)

	require.NoError(t, fs.SaveCentral(old))
	require.NoError(t, fs.SaveCentral(fresh))
	require.NoError(t, fs.SaveUser(42, old))

	removed, err := fs.Cleanup(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = fs.GetCentral(old.ID)
	assert.ErrorIs(t, err, signals.ErrSignalNotFound)

	got, err := fs.GetCentral(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, got.ID)
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)

	sig := signalAt("EURUSD", time.Now())
	require.NoError(t, first.SaveUser(42, sig))

	// Новый экземпляр поверх того же каталога видит записи
	second, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := second.GetUser(42, sig.ID)
	require.NoError(t, err)
	assert.Equal(t, sig.ID, got.ID)
}
