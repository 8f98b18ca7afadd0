package square

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storesync/internal/catalog"
	"storesync/internal/logger"
)

// Client is a minimal Square API client covering the catalog listing and
// inventory count calls the sync engine needs.
type Client struct {
	baseURL     string
	accessToken string
	locationID  string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(baseURL, accessToken, locationID string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		locationID:  locationID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ListCatalog fetches every ITEM, IMAGE and CATEGORY object, following
// cursor pagination until the listing is exhausted.
func (c *Client) ListCatalog(ctx context.Context) ([]CatalogObject, error) {
	var objects []CatalogObject
	cursor := ""

	for {
		url := fmt.Sprintf("%s/v2/catalog/list?types=ITEM,IMAGE,CATEGORY", c.baseURL)
		if cursor != "" {
			url += "&cursor=" + cursor
		}

		var page listCatalogResponse
		if err := c.get(ctx, url, &page); err != nil {
			return nil, err
		}

		objects = append(objects, page.Objects...)

		if page.Cursor == "" {
			return objects, nil
		}
		cursor = page.Cursor
	}
}

// RetrieveInventoryCounts fetches all inventory counts for the configured
// location, following cursor pagination.
func (c *Client) RetrieveInventoryCounts(ctx context.Context) ([]InventoryCount, error) {
	var counts []InventoryCount
	cursor := ""

	for {
		reqBody := batchRetrieveCountsRequest{
			LocationIDs: []string{c.locationID},
			Cursor:      cursor,
		}

		var page batchRetrieveCountsResponse
		url := c.baseURL + "/v2/inventory/counts/batch-retrieve"
		if err := c.post(ctx, url, reqBody, &page); err != nil {
			return nil, err
		}

		counts = append(counts, page.Counts...)

		if page.Cursor == "" {
			return counts, nil
		}
		cursor = page.Cursor
	}
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, url string, body, out interface{}) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Square-Version", "2023-10-18")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", catalog.ErrAuth, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d - %s", catalog.ErrSourceUnavailable, resp.StatusCode, truncate(body, 200))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrSourceUnavailable, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("Undecodable Square response: %s", truncate(raw, 200))
		return fmt.Errorf("%w: %v", catalog.ErrMalformedResponse, err)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
