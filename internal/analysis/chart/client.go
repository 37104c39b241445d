// internal/analysis/chart/client.go
package chart

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"forex-signals-bot/internal/infrastructure/config"
	"forex-signals-bot/pkg/logger"
)

// Client клиент сервиса рендеринга графиков
type Client struct {
	http   *resty.Client
	apiKey string
}

type renderResponse struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// NewClient создает клиент сервиса графиков
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.Collaborators.ChartBaseURL).
		SetTimeout(cfg.Collaborators.RequestTimeout).
		SetRetryCount(2)

	return &Client{
		http:   httpClient,
		apiKey: cfg.Collaborators.ChartAPIKey,
	}
}

// Render запрашивает график инструмента на таймфрейме,
// возвращает URL готового изображения
func (c *Client) Render(ctx context.Context, instrument, timeframe string) (string, error) {
	var result renderResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-API-Key", c.apiKey).
		SetQueryParams(map[string]string{
			"symbol":   instrument,
			"interval": timeframe,
		}).
		SetResult(&result).
		Get("/api/v1/chart")
	if err != nil {
		return "", fmt.Errorf("запрос графика %s %s: %w", instrument, timeframe, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("сервис графиков вернул %s", resp.Status())
	}
	if result.URL == "" {
		return "", fmt.Errorf("сервис графиков не вернул изображение: %s", result.Error)
	}

	logger.Debug("📊 График %s %s: %s", instrument, timeframe, result.URL)
	return result.URL, nil
}
