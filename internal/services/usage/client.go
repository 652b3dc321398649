// Package usage provides metering API fetching and periodic polling.
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
)

// ErrNoAPIKey is returned when a fetch is attempted without a configured key.
var ErrNoAPIKey = errors.New("no API key configured")

// planResponse is the coding-plan remains payload.
type planResponse struct {
	ModelRemains []modelRemain `json:"model_remains"`
	BaseResp     baseResp      `json:"base_resp"`
}

// modelRemain is one per-model entry. Times are millisecond epochs and
// remains_time is a millisecond duration. current_interval_usage_count is
// the remaining count despite its name.
type modelRemain struct {
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
	RemainsTime    int64  `json:"remains_time"`
	TotalCount     int    `json:"current_interval_total_count"`
	RemainingCount int    `json:"current_interval_usage_count"`
	ModelName      string `json:"model_name"`
}

type baseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}

func (b baseResp) isSuccess() bool {
	return b.StatusCode == 0
}

// toRecord converts a wire entry into the domain record.
func (m modelRemain) toRecord() models.UsageRecord {
	return models.UsageRecord{
		WindowStart:    time.UnixMilli(m.StartTime),
		WindowEnd:      time.UnixMilli(m.EndTime),
		ModelName:      m.ModelName,
		RemainingTime:  time.Duration(m.RemainsTime) * time.Millisecond,
		TotalCount:     m.TotalCount,
		RemainingCount: m.RemainingCount,
	}
}

// Client fetches usage from the metering API.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a metering API client for the given endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchUsage retrieves the current per-model usage records. Records are
// returned in response order.
func (c *Client) FetchUsage(ctx context.Context, apiKey string) ([]models.UsageRecord, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usage request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("usage fetch failed (status %d): %s", resp.StatusCode, string(body))
	}

	var plan planResponse
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse usage response: %w", err)
	}

	if !plan.BaseResp.isSuccess() {
		return nil, fmt.Errorf("api error (status %d): %s", plan.BaseResp.StatusCode, plan.BaseResp.StatusMsg)
	}

	records := make([]models.UsageRecord, 0, len(plan.ModelRemains))
	for _, m := range plan.ModelRemains {
		records = append(records, m.toRecord())
	}
	return records, nil
}
