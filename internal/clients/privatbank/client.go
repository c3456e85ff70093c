package privatbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"service-rates/internal/models"
)

const maxBodyBytes = 512 << 10

// Client fetches one day of the PrivatBank exchange-rates archive per call.
// It holds no HTTP session of its own: the session is owned by the caller
// and shared across the concurrent per-day fetches of one aggregation run.
type Client struct {
	BaseURL string
}

func New() *Client {
	return &Client{BaseURL: "https://api.privatbank.ua/p24api/exchange_rates"}
}

// Fetch performs exactly one GET for one archive date and returns the raw
// payload untouched. Exactly one attempt, no retries.
func (c *Client) Fetch(ctx context.Context, session *http.Client, date models.ArchiveDate) (*models.DayRatesResponse, error) {
	url := fmt.Sprintf("%s?json&date=%s", c.BaseURL, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}

	resp, err := session.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &MalformedBodyError{URL: url, Err: err}
	}

	var out models.DayRatesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &MalformedBodyError{URL: url, Err: err}
	}
	return &out, nil
}
