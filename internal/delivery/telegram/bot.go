// internal/delivery/telegram/bot.go
package telegram

import (
	"context"
	"strings"
	"sync"

	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/delivery/telegram/buttons"
	"forex-signals-bot/internal/delivery/telegram/constants"
	"forex-signals-bot/internal/delivery/telegram/dispatcher"
	"forex-signals-bot/pkg/logger"
)

const chatQueueSize = 64

// Bot связывает обновления Telegram с диспетчером обработчиков.
// Обновления одного чата обрабатываются строго по очереди,
// разные чаты — параллельно.
type Bot struct {
	client     *Client
	sessions   *session.Store
	dispatcher *dispatcher.Dispatcher

	mu     sync.Mutex
	queues map[int64]chan Update

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBot создает бота
func NewBot(client *Client, sessions *session.Store, disp *dispatcher.Dispatcher) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		client:     client,
		sessions:   sessions,
		dispatcher: disp,
		queues:     make(map[int64]chan Update),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// HandleUpdate ставит обновление в очередь своего чата
func (b *Bot) HandleUpdate(update Update) {
	chatID := updateChatID(update)
	if chatID == 0 {
		return
	}

	b.mu.Lock()
	queue, ok := b.queues[chatID]
	if !ok {
		queue = make(chan Update, chatQueueSize)
		b.queues[chatID] = queue
		b.wg.Add(1)
		go b.processChat(chatID, queue)
	}
	b.mu.Unlock()

	select {
	case queue <- update:
	default:
		logger.Warn("⚠️ Очередь чата %d переполнена, обновление %d отброшено",
			chatID, update.UpdateID)
	}
}

// Stop останавливает обработку очередей
func (b *Bot) Stop() {
	b.cancel()
	b.wg.Wait()
}

// processChat последовательно обрабатывает обновления одного чата
func (b *Bot) processChat(chatID int64, queue chan Update) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case update := <-queue:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update Update) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Data != "":
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(update.Message)
	}
}

// handleCallback обрабатывает нажатие inline кнопки
func (b *Bot) handleCallback(cb *CallbackQuery) {
	ctx := b.ctx
	chatID := cb.Message.Chat.ID

	if err := b.client.AnswerCallback(ctx, cb.ID, ""); err != nil {
		logger.Warn("⚠️ Не удалось подтвердить callback %s: %v", cb.ID, err)
	}

	sess := b.sessions.Get(ctx, cb.From.ID, chatID)
	logger.Debug("🔄 Callback %q от пользователя %d (состояние %s)",
		cb.Data, cb.From.ID, sess.State)

	screen, handled, err := b.dispatcher.Dispatch(ctx, sess, chatID, cb.Data, cb.ID)
	if err != nil {
		logger.Error("❌ Ошибка обработки callback %q: %v", cb.Data, err)
		screen = errorScreen()
		handled = true
	}
	if !handled {
		screen = unknownScreen()
	}

	// Текстовые экраны редактируются на месте, фото идет новым сообщением
	if screen.PhotoURL == "" {
		if err := b.client.EditMessageText(ctx, chatID, cb.Message.MessageID, screen.Text, screen.Keyboard); err != nil {
			logger.Debug("Редактирование сообщения %d не удалось, отправляю новое: %v",
				cb.Message.MessageID, err)
			b.deliver(ctx, chatID, screen)
		}
	} else {
		b.deliver(ctx, chatID, screen)
	}
	b.saveSession(ctx, sess)
}

// handleMessage обрабатывает текстовое сообщение (команды)
func (b *Bot) handleMessage(msg *Message) {
	ctx := b.ctx
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	sess := b.sessions.Get(ctx, msg.From.ID, chatID)
	logger.Debug("📨 Сообщение %q от пользователя %d", text, msg.From.ID)

	var screen conversation.Screen
	handled := false

	if strings.HasPrefix(text, "/") {
		var err error
		screen, handled, err = b.dispatcher.Dispatch(ctx, sess, chatID, text, "")
		if err != nil {
			logger.Error("❌ Ошибка обработки команды %q: %v", text, err)
			screen = errorScreen()
			handled = true
		}
	}
	if !handled {
		screen = unknownScreen()
	}

	b.deliver(ctx, chatID, screen)
	b.saveSession(ctx, sess)
}

// deliver отправляет экран в чат
func (b *Bot) deliver(ctx context.Context, chatID int64, screen conversation.Screen) {
	var err error
	if screen.PhotoURL != "" {
		err = b.client.SendPhoto(ctx, chatID, screen.PhotoURL, screen.Text, screen.Keyboard)
	} else {
		err = b.client.SendMessage(ctx, chatID, screen.Text, screen.Keyboard)
	}
	if err != nil {
		logger.Error("❌ Ошибка отправки в чат %d: %v", chatID, err)
	}
}

func (b *Bot) saveSession(ctx context.Context, sess *session.Session) {
	if err := b.sessions.Save(ctx, sess); err != nil {
		logger.Error("❌ Ошибка сохранения сессии %d: %v", sess.UserID, err)
	}
}

// unknownScreen экран для нераспознанного ввода
func unknownScreen() conversation.Screen {
	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonMainMenu, constants.CallbackMainMenu)).
		Build()
	return conversation.Screen{
		Text:     "🤔 Я не понимаю это действие. Вернитесь в главное меню.",
		Keyboard: kb,
	}
}

// errorScreen экран для внутренней ошибки
func errorScreen() conversation.Screen {
	kb := buttons.NewBuilder().
		Row(buttons.Callback(constants.ButtonMainMenu, constants.CallbackMainMenu)).
		Build()
	return conversation.Screen{
		Text:     "⚠️ Что-то пошло не так. Попробуйте еще раз.",
		Keyboard: kb,
	}
}

// updateChatID извлекает идентификатор чата из обновления
func updateChatID(update Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}
