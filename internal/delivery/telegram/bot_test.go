// internal/delivery/telegram/bot_test.go
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forex-signals-bot/internal/analysis/calendar"
	"forex-signals-bot/internal/core/domain/conversation"
	"forex-signals-bot/internal/core/domain/session"
	"forex-signals-bot/internal/core/domain/signals/store"
	"forex-signals-bot/internal/core/domain/subscription"
	"forex-signals-bot/internal/delivery/telegram/constants"
	"forex-signals-bot/internal/delivery/telegram/formatters"
	"forex-signals-bot/internal/delivery/telegram/screens"
	"forex-signals-bot/internal/infrastructure/config"
	storage "forex-signals-bot/internal/infrastructure/persistence/in_memory_storage"
)

// apiCall один перехваченный вызов Telegram Bot API
type apiCall struct {
	method  string
	payload map[string]interface{}
}

// fakeTelegramAPI сервер, записывающий вызовы Bot API
type fakeTelegramAPI struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeTelegramAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	method := parts[len(parts)-1]

	var payload map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, payload: payload})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"ok":true}`)
}

func (f *fakeTelegramAPI) callsFor(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []apiCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTelegramAPI) count(method string) int {
	return len(f.callsFor(method))
}

type stubChart struct{}

func (stubChart) Render(_ context.Context, instrument, _ string) (string, error) {
	return "https://charts.test/" + instrument + ".png", nil
}

type stubSentiment struct{}

func (stubSentiment) Analyze(_ context.Context, _ string) (string, error) {
	return "Настроение нейтральное", nil
}

type stubCalendar struct{}

func (stubCalendar) Events(_ context.Context, _ time.Time) ([]calendar.Event, error) {
	return nil, nil
}

// newTestBot собирает бота поверх поддельного Bot API
func newTestBot(t *testing.T) (*Bot, *fakeTelegramAPI, *session.Store) {
	t.Helper()

	api := &fakeTelegramAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Telegram.BaseURL = srv.URL
	cfg.Telegram.BotToken = "test-token"

	st := store.NewSignalStore(nil, nil)
	subs := subscription.NewService(storage.NewSubscriptionStorage())
	renderer := screens.NewRenderer(st, stubChart{}, stubSentiment{}, stubCalendar{},
		formatters.NewSignalFormatter())
	machine := conversation.NewMachine(renderer)

	sessions := session.NewStore(nil)
	bot := NewBot(NewClient(cfg), sessions, BuildDispatcher(machine, st, subs))
	t.Cleanup(bot.Stop)

	return bot, api, sessions
}

func callbackUpdate(updateID int64, userID, chatID int64, data string) Update {
	return Update{
		UpdateID: updateID,
		CallbackQuery: &CallbackQuery{
			ID:   fmt.Sprintf("cb-%d", updateID),
			From: User{ID: userID},
			Data: data,
			Message: &Message{
				MessageID: 42,
				Chat:      Chat{ID: chatID},
			},
		},
	}
}

func TestBot_HandleUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("callback подтверждается, экран редактируется, сессия меняется", func(t *testing.T) {
		bot, api, sessions := newTestBot(t)

		bot.HandleUpdate(callbackUpdate(1, 7, 100, constants.CallbackMainMenu))

		require.Eventually(t, func() bool {
			return api.count("editMessageText") == 1
		}, 2*time.Second, 10*time.Millisecond)

		answers := api.callsFor("answerCallbackQuery")
		require.Len(t, answers, 1)
		assert.Equal(t, "cb-1", answers[0].payload["callback_query_id"])

		edit := api.callsFor("editMessageText")[0]
		assert.Equal(t, float64(100), edit.payload["chat_id"])
		assert.Equal(t, float64(42), edit.payload["message_id"])
		assert.Contains(t, edit.payload["text"], "Добро пожаловать")
		assert.NotNil(t, edit.payload["reply_markup"])

		sess := sessions.Get(ctx, 7, 100)
		assert.Equal(t, string(conversation.StateMainMenu), sess.State)
	})

	t.Run("команда /start отвечает новым сообщением", func(t *testing.T) {
		bot, api, sessions := newTestBot(t)

		bot.HandleUpdate(Update{
			UpdateID: 1,
			Message: &Message{
				MessageID: 1,
				From:      User{ID: 8},
				Chat:      Chat{ID: 200},
				Text:      "/start",
			},
		})

		require.Eventually(t, func() bool {
			return api.count("sendMessage") == 1
		}, 2*time.Second, 10*time.Millisecond)

		msg := api.callsFor("sendMessage")[0]
		assert.Equal(t, float64(200), msg.payload["chat_id"])
		assert.Contains(t, msg.payload["text"], "Добро пожаловать")

		sess := sessions.Get(ctx, 8, 200)
		assert.Equal(t, string(conversation.StateMainMenu), sess.State)
	})

	t.Run("нераспознанный callback получает экран-заглушку", func(t *testing.T) {
		bot, api, _ := newTestBot(t)

		bot.HandleUpdate(callbackUpdate(1, 7, 100, "no_such_token"))

		require.Eventually(t, func() bool {
			return api.count("editMessageText") == 1
		}, 2*time.Second, 10*time.Millisecond)

		edit := api.callsFor("editMessageText")[0]
		assert.Contains(t, edit.payload["text"], "не понимаю")
	})

	t.Run("обновления одного чата обрабатываются по порядку", func(t *testing.T) {
		bot, api, sessions := newTestBot(t)

		// Цепочка имеет смысл только при последовательной обработке:
		// каждый следующий переход допустим лишь из состояния предыдущего
		bot.HandleUpdate(callbackUpdate(1, 7, 100, constants.CallbackMainMenu))
		bot.HandleUpdate(callbackUpdate(2, 7, 100, constants.CallbackAnalysisOpen))
		bot.HandleUpdate(callbackUpdate(3, 7, 100, constants.CallbackAnalysisType+":"+conversation.AnalysisTechnical))

		require.Eventually(t, func() bool {
			return api.count("editMessageText") == 3
		}, 2*time.Second, 10*time.Millisecond)

		edits := api.callsFor("editMessageText")
		assert.Contains(t, edits[0].payload["text"], "Добро пожаловать")
		assert.Contains(t, edits[1].payload["text"], "Какой анализ")
		assert.Contains(t, edits[2].payload["text"], "Выберите рынок")

		sess := sessions.Get(ctx, 7, 100)
		assert.Equal(t, string(conversation.StateChooseMarket), sess.State)
	})

	t.Run("экран с графиком уходит фотографией, а не правкой", func(t *testing.T) {
		bot, api, _ := newTestBot(t)

		steps := []string{
			constants.CallbackMainMenu,
			constants.CallbackAnalysisOpen,
			constants.CallbackAnalysisType + ":" + conversation.AnalysisTechnical,
			constants.CallbackMarket + ":FOREX",
			constants.CallbackInstrument + ":EURUSD",
			constants.CallbackTimeframe + ":1h",
		}
		for i, data := range steps {
			bot.HandleUpdate(callbackUpdate(int64(i+1), 7, 100, data))
		}

		require.Eventually(t, func() bool {
			return api.count("sendPhoto") == 1
		}, 2*time.Second, 10*time.Millisecond)

		photo := api.callsFor("sendPhoto")[0]
		assert.Equal(t, "https://charts.test/EURUSD.png", photo.payload["photo"])
		// Текстовые шаги воронки отредактированы на месте
		assert.Equal(t, 5, api.count("editMessageText"))
	})

	t.Run("обновление без чата отбрасывается молча", func(t *testing.T) {
		bot, api, _ := newTestBot(t)

		bot.HandleUpdate(Update{UpdateID: 1})

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 0, api.count("sendMessage"))
		assert.Equal(t, 0, api.count("editMessageText"))
	})
}
