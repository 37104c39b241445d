// internal/delivery/httpapi/server.go
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"forex-signals-bot/internal/core/domain/distributor"
	"forex-signals-bot/internal/core/domain/signals"
	"forex-signals-bot/internal/infrastructure/config"
	"forex-signals-bot/pkg/logger"
)

// Server - HTTP сервер приема сигналов от поставщиков
type Server struct {
	config      *config.Config
	distributor *distributor.Distributor
	server      *http.Server
}

// NewServer создает сервер приема сигналов
func NewServer(cfg *config.Config, dist *distributor.Distributor) *Server {
	return &Server{
		config:      cfg,
		distributor: dist,
	}
}

// Start запускает сервер
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(requestID)

	r.Post("/api/v1/signal", s.handleSignal)
	r.Get("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Ingest.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Info("🚀 Сервер приема сигналов запускается на порту %d", s.config.Ingest.Port)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("❌ Ошибка сервера приема сигналов: %v", err)
		}
	}()

	return nil
}

// Stop останавливает сервер
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleSignal принимает сигнал и запускает рассылку
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFrom(r.Context())

	var raw distributor.RawSignal
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		logger.Warn("⚠️ [%s] Некорректный JSON сигнала: %v", reqID, err)
		writeError(w, http.StatusBadRequest, "некорректный JSON")
		return
	}

	sig, err := s.distributor.Distribute(r.Context(), &raw)
	if err != nil {
		var vErr *signals.ValidationError
		if errors.As(err, &vErr) {
			logger.Warn("⚠️ [%s] Сигнал отклонен: %v", reqID, vErr)
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		logger.Error("❌ [%s] Ошибка обработки сигнала: %v", reqID, err)
		writeError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("сигнал %s принят", sig.ID),
	})
}

// handleHealth проверка здоровья
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"time":    time.Now().Format(time.RFC3339),
		"version": s.config.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// requestID присваивает каждому запросу корреляционный идентификатор
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return "-"
}
