// internal/infrastructure/persistence/postgres/repository/signal/repository.go
package signal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"forex-signals-bot/internal/core/domain/signals"
)

// Repository хранит сигналы в PostgreSQL (последний ярус SignalStore)
type Repository struct {
	db *sqlx.DB
}

// NewRepository создает новый репозиторий сигналов
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// signalRow строка таблицы user_signals
type signalRow struct {
	UserID      int64     `db:"user_id"`
	ID          string    `db:"id"`
	Instrument  string    `db:"instrument"`
	Direction   string    `db:"direction"`
	Entry       string    `db:"entry"`
	StopLoss    string    `db:"stop_loss"`
	TakeProfits []byte    `db:"take_profits"`
	Timeframe   string    `db:"timeframe"`
	Market      string    `db:"market"`
	Text        string    `db:"text"`
	CreatedAt   time.Time `db:"created_at"`
}

// Save сохраняет сигнал. Повторная запись того же (user_id, id) не дублирует строку.
func (r *Repository) Save(ctx context.Context, userID int64, sig *signals.Signal) error {
	query := `
    INSERT INTO user_signals (
        user_id, id, instrument, direction, entry, stop_loss,
        take_profits, timeframe, market, text, created_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    ON CONFLICT (user_id, id) DO NOTHING
    `

	tpJSON, err := json.Marshal(sig.TakeProfits)
	if err != nil {
		return fmt.Errorf("failed to marshal take profits: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		userID, sig.ID, sig.Instrument, sig.Direction,
		sig.Entry.String(), sig.StopLoss.String(),
		tpJSON, sig.Timeframe, sig.Market, sig.Text, sig.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save signal %s: %w", sig.ID, err)
	}
	return nil
}

// GetByID ищет сигнал пользователя, затем центральную запись (user_id = 0)
func (r *Repository) GetByID(ctx context.Context, userID int64, id string) (*signals.Signal, error) {
	query := `
    SELECT user_id, id, instrument, direction, entry, stop_loss,
           take_profits, timeframe, market, text, created_at
    FROM user_signals
    WHERE id = $1 AND user_id IN ($2, 0)
    ORDER BY user_id DESC
    LIMIT 1
    `

	var row signalRow
	if err := r.db.GetContext(ctx, &row, query, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, signals.ErrSignalNotFound
		}
		return nil, fmt.Errorf("failed to get signal %s: %w", id, err)
	}
	return rowToSignal(&row)
}

// DeleteOlderThan удаляет сигналы старше cutoff (окно хранения)
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_signals WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old signals: %w", err)
	}
	return result.RowsAffected()
}

func rowToSignal(row *signalRow) (*signals.Signal, error) {
	entry, err := decimal.NewFromString(row.Entry)
	if err != nil {
		return nil, fmt.Errorf("повреждённая запись %s: entry: %w", row.ID, err)
	}
	stopLoss, err := decimal.NewFromString(row.StopLoss)
	if err != nil {
		return nil, fmt.Errorf("повреждённая запись %s: stop_loss: %w", row.ID, err)
	}

	var takeProfits []decimal.Decimal
	if len(row.TakeProfits) > 0 {
		if err := json.Unmarshal(row.TakeProfits, &takeProfits); err != nil {
			return nil, fmt.Errorf("повреждённая запись %s: take_profits: %w", row.ID, err)
		}
	}

	return &signals.Signal{
		ID:          row.ID,
		Instrument:  row.Instrument,
		Direction:   row.Direction,
		Entry:       entry,
		StopLoss:    stopLoss,
		TakeProfits: takeProfits,
		Timeframe:   row.Timeframe,
		Market:      row.Market,
		Text:        row.Text,
		CreatedAt:   row.CreatedAt,
	}, nil
}
