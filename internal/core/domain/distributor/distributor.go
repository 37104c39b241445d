// internal/core/domain/distributor/distributor.go
package distributor

import (
	"context"
	"fmt"
	"time"

	"forex-signals-bot/internal/core/domain/signals"
	"forex-signals-bot/internal/core/domain/signals/store"
	"forex-signals-bot/pkg/logger"
)

// Sender отправляет сообщение с сигналом получателю.
type Sender interface {
	SendSignal(ctx context.Context, chatID int64, text string, keyboard interface{}) error
}

// Formatter строит текст и клавиатуру уведомления о сигнале.
type Formatter interface {
	FormatSignal(sig *signals.Signal) string
	SignalKeyboard(sig *signals.Signal) interface{}
}

// Recipients возвращает подписчиков на инструмент/таймфрейм.
type Recipients interface {
	Recipients(ctx context.Context, instrument, timeframe string) ([]int64, error)
}

// Distributor нормализует входящие сигналы, сохраняет их
// и рассылает подписчикам и администраторам.
type Distributor struct {
	store      *store.SignalStore
	subs       Recipients
	sender     Sender
	formatter  Formatter
	adminChats []int64
}

func NewDistributor(st *store.SignalStore, subs Recipients, sender Sender,
	formatter Formatter, adminChats []int64) *Distributor {
	return &Distributor{
		store:      st,
		subs:       subs,
		sender:     sender,
		formatter:  formatter,
		adminChats: adminChats,
	}
}

// Distribute принимает сырой сигнал, сохраняет его в центральное хранилище
// и рассылает. Успех определяется сохранением: ошибки доставки отдельным
// получателям логируются, но рассылку не прерывают.
func (d *Distributor) Distribute(ctx context.Context, raw *RawSignal) (*signals.Signal, error) {
	sig, err := Normalize(raw, time.Now())
	if err != nil {
		return nil, err
	}
	sig.Text = d.formatter.FormatSignal(sig)

	// Сохранение в центральное хранилище — обязательное условие успеха
	if err := d.store.Put(ctx, store.CentralOwner, sig); err != nil {
		return nil, fmt.Errorf("сохранение сигнала %s: %w", sig.ID, err)
	}

	recipients, err := d.subs.Recipients(ctx, sig.Instrument, sig.Timeframe)
	if err != nil {
		logger.Error("Ошибка получения подписчиков для %s %s: %v",
			sig.Instrument, sig.Timeframe, err)
		recipients = nil
	}

	keyboard := d.formatter.SignalKeyboard(sig)
	delivered := 0

	for _, userID := range recipients {
		if err := d.store.Put(ctx, userID, sig); err != nil {
			logger.Warn("Не удалось сохранить сигнал %s для пользователя %d: %v",
				sig.ID, userID, err)
		}
		if err := d.sender.SendSignal(ctx, userID, sig.Text, keyboard); err != nil {
			logger.Error("Ошибка доставки сигнала %s пользователю %d: %v",
				sig.ID, userID, err)
			continue
		}
		delivered++
	}

	for _, chatID := range d.adminChats {
		if contains(recipients, chatID) {
			continue
		}
		if err := d.sender.SendSignal(ctx, chatID, sig.Text, keyboard); err != nil {
			logger.Error("Ошибка доставки сигнала %s в админ-чат %d: %v",
				sig.ID, chatID, err)
			continue
		}
		delivered++
	}

	logger.Signal(sig.Instrument, sig.Direction, sig.Timeframe, delivered)
	return sig, nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
