// internal/analysis/calendar/client.go
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"forex-signals-bot/internal/infrastructure/config"
)

// Event событие экономического календаря
type Event struct {
	Time     time.Time `json:"time"`
	Currency string    `json:"currency"`
	Title    string    `json:"title"`
	Impact   string    `json:"impact"`
	Forecast string    `json:"forecast,omitempty"`
	Previous string    `json:"previous,omitempty"`
}

// Client клиент сервиса экономического календаря
type Client struct {
	http *resty.Client
}

type eventsResponse struct {
	Events []Event `json:"events"`
}

// NewClient создает клиент календаря
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.Collaborators.CalendarBaseURL).
		SetTimeout(cfg.Collaborators.RequestTimeout).
		SetRetryCount(2)

	return &Client{http: httpClient}
}

// Events возвращает события календаря на указанную дату
func (c *Client) Events(ctx context.Context, date time.Time) ([]Event, error) {
	var result eventsResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", date.Format("2006-01-02")).
		SetResult(&result).
		Get("/api/v1/calendar")
	if err != nil {
		return nil, fmt.Errorf("запрос календаря на %s: %w", date.Format("2006-01-02"), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("сервис календаря вернул %s", resp.Status())
	}

	return result.Events, nil
}
