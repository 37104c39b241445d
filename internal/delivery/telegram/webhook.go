// internal/delivery/telegram/webhook.go
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"forex-signals-bot/internal/infrastructure/config"
	"forex-signals-bot/pkg/logger"
)

// WebhookServer - сервер для обработки webhook запросов от Telegram
type WebhookServer struct {
	config *config.Config
	bot    *Bot
	server *http.Server
}

// NewWebhookServer создает новый сервер webhook
func NewWebhookServer(cfg *config.Config, bot *Bot) *WebhookServer {
	return &WebhookServer{
		config: cfg,
		bot:    bot,
	}
}

// Start запускает сервер webhook
func (ws *WebhookServer) Start() error {
	if ws.bot == nil {
		return fmt.Errorf("бот не инициализирован")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", ws.handleWebhook)
	mux.HandleFunc("/health", ws.handleHealthCheck)

	ws.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", ws.config.Telegram.WebhookPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("🚀 Webhook сервер запускается на порту %d", ws.config.Telegram.WebhookPort)

	go func() {
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("❌ Ошибка webhook сервера: %v", err)
		}
	}()

	return nil
}

// Stop останавливает сервер webhook
func (ws *WebhookServer) Stop(ctx context.Context) error {
	if ws.server != nil {
		return ws.server.Shutdown(ctx)
	}
	return nil
}

// handleWebhook обрабатывает входящие webhook запросы
func (ws *WebhookServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("❌ Ошибка чтения тела webhook: %v", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var update Update
	if err := json.Unmarshal(body, &update); err != nil {
		logger.Error("❌ Ошибка разбора обновления: %v", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	// Telegram ждет быстрый ответ: обработка уходит в очередь чата
	ws.bot.HandleUpdate(update)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleHealthCheck обрабатывает запросы проверки здоровья
func (ws *WebhookServer) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"status":  "ok",
		"time":    time.Now().Format(time.RFC3339),
		"version": ws.config.Version,
	}
	json.NewEncoder(w).Encode(response)
}
