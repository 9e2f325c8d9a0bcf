// Package bible is a thin HTTP client for the external Bible passage API.
package bible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"versekeep/internal/domain/services"
)

// Client implements the PassageClient interface against a bible-api style
// HTTP endpoint: GET {base}/{reference} returns the passage as JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a passage client for the given base URL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// passageResponse is the vendor's wire format.
type passageResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Verses    []struct {
		BookName string `json:"book_name"`
		Chapter  int    `json:"chapter"`
		Verse    int    `json:"verse"`
		Text     string `json:"text"`
	} `json:"verses"`
}

// GetPassage fetches the full text for a verse reference.
func (c *Client) GetPassage(ctx context.Context, reference string) (*services.PassageResult, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(reference)

	var resp passageResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get passage %q: %w", reference, err)
	}

	return &services.PassageResult{
		Reference: resp.Reference,
		Text:      strings.TrimSpace(resp.Text),
	}, nil
}

// Search looks up passages matching a free-text query. The vendor treats a
// query like a reference, so search is a passage fetch that tolerates misses.
func (c *Client) Search(ctx context.Context, query string) ([]services.PassageResult, error) {
	result, err := c.GetPassage(ctx, query)
	if err != nil {
		return nil, err
	}
	return []services.PassageResult{*result}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("passage lookup failed",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
