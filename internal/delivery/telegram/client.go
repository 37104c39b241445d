// internal/delivery/telegram/client.go
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"forex-signals-bot/internal/infrastructure/config"
	"forex-signals-bot/pkg/logger"
)

// Client - клиент Telegram Bot API
type Client struct {
	baseURL    string
	httpClient *http.Client
	testMode   bool
}

// NewClient создает клиент Telegram Bot API
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("%s/bot%s/", cfg.Telegram.BaseURL, cfg.Telegram.BotToken),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		testMode:   cfg.Telegram.TestMode,
	}
}

// SendMessage отправляет текстовое сообщение с опциональной клавиатурой
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendMessage", payload)
}

// SendPhoto отправляет изображение по URL с подписью
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, keyboard interface{}) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "sendPhoto", payload)
}

// EditMessageText редактирует текст существующего сообщения
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, keyboard interface{}) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	return c.call(ctx, "editMessageText", payload)
}

// AnswerCallback подтверждает обработку callback запроса
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	payload := map[string]interface{}{
		"callback_query_id": callbackID,
	}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload)
}

// SendSignal отправляет уведомление о сигнале (интерфейс рассыльщика)
func (c *Client) SendSignal(ctx context.Context, chatID int64, text string, keyboard interface{}) error {
	return c.SendMessage(ctx, chatID, text, keyboard)
}

// call выполняет запрос к Telegram Bot API
func (c *Client) call(ctx context.Context, method string, payload interface{}) error {
	if c.testMode {
		logger.Debug("🧪 [TEST MODE] %s: %+v", method, payload)
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("сериализация запроса %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("создание запроса %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("чтение ответа %s: %w", method, err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("разбор ответа %s: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram API %s: %d %s", method, apiResp.ErrorCode, apiResp.Description)
	}

	return nil
}
