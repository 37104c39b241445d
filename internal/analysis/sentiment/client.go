// internal/analysis/sentiment/client.go
package sentiment

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"forex-signals-bot/internal/infrastructure/config"
)

// Client клиент сервиса анализа настроений рынка
type Client struct {
	http *resty.Client
}

type analyzeResponse struct {
	Instrument string `json:"instrument"`
	Summary    string `json:"summary"`
	Bullish    int    `json:"bullish_percent"`
	Bearish    int    `json:"bearish_percent"`
}

// NewClient создает клиент сервиса настроений
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.Collaborators.SentimentBaseURL).
		SetTimeout(cfg.Collaborators.RequestTimeout).
		SetRetryCount(2)

	return &Client{http: httpClient}
}

// Analyze возвращает текстовую сводку настроений по инструменту
func (c *Client) Analyze(ctx context.Context, instrument string) (string, error) {
	var result analyzeResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", instrument).
		SetResult(&result).
		Get("/api/v1/sentiment")
	if err != nil {
		return "", fmt.Errorf("запрос настроений %s: %w", instrument, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("сервис настроений вернул %s", resp.Status())
	}

	if result.Summary != "" {
		return result.Summary, nil
	}
	return fmt.Sprintf("Настроения по %s: 🐂 %d%% / 🐻 %d%%",
		instrument, result.Bullish, result.Bearish), nil
}
