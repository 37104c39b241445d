// internal/core/domain/subscription/service_test.go
package subscription

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "forex-signals-bot/internal/infrastructure/persistence/in_memory_storage"
	"forex-signals-bot/internal/infrastructure/persistence/postgres/models"
)

func TestService_Recipients(t *testing.T) {
	ctx := context.Background()

	t.Run("только активные подписчики без просрочки", func(t *testing.T) {
		repo := storage.NewSubscriptionStorage()
		svc := NewService(repo)

		require.NoError(t, svc.Subscribe(ctx, 10, "EURUSD", "1h"))
		require.NoError(t, svc.Subscribe(ctx, 20, "EURUSD", "1h"))
		require.NoError(t, svc.Subscribe(ctx, 30, "EURUSD", "1h"))

		repo.SetStatus(20, models.StatusPastDue)
		repo.SetStatus(30, models.StatusCanceled)

		recipients, err := svc.Recipients(ctx, "EURUSD", "1h")
		require.NoError(t, err)
		assert.Equal(t, []int64{10}, recipients)
	})

	t.Run("подписка на другой таймфрейм не попадает в рассылку", func(t *testing.T) {
		repo := storage.NewSubscriptionStorage()
		svc := NewService(repo)

		require.NoError(t, svc.Subscribe(ctx, 10, "EURUSD", "4h"))

		recipients, err := svc.Recipients(ctx, "EURUSD", "1h")
		require.NoError(t, err)
		assert.Empty(t, recipients)
	})

	t.Run("отписка убирает получателя", func(t *testing.T) {
		repo := storage.NewSubscriptionStorage()
		svc := NewService(repo)

		require.NoError(t, svc.Subscribe(ctx, 10, "EURUSD", "1h"))
		require.NoError(t, svc.Unsubscribe(ctx, 10, "EURUSD", "1h"))

		recipients, err := svc.Recipients(ctx, "EURUSD", "1h")
		require.NoError(t, err)
		assert.Empty(t, recipients)
	})
}

func TestService_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewSubscriptionStorage()
	svc := NewService(repo)

	require.NoError(t, svc.Subscribe(ctx, 10, "EURUSD", "1h"))
	require.NoError(t, svc.Subscribe(ctx, 10, "XAUUSD", "1d"))

	list, err := svc.ListByUser(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
