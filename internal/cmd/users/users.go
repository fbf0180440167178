package users

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"guardianearth/internal/config"
)

// Counts is a snapshot of the user base used for the dashboard's
// distribution ratio.
type Counts struct {
	Active int
	Total  int
}

type Directory interface {
	CountUsers(ctx context.Context) (Counts, error)
}

type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		token:      cfg.Users.Token,
		baseURL:    cfg.Users.URL,
	}
}

func (c *Client) CountUsers(ctx context.Context) (Counts, error) {
	endpoint := fmt.Sprintf("%s/api/auth/users", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Counts{}, fmt.Errorf("user directory request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Counts{}, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Counts{}, fmt.Errorf("unexpected status: %s: %s", resp.Status, string(raw))
	}

	var parsed []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Counts{}, fmt.Errorf("invalid JSON structure: %w", err)
	}

	counts := Counts{Total: len(parsed)}
	for _, u := range parsed {
		if u.Status == "active" {
			counts.Active++
		}
	}
	return counts, nil
}
