package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"crypto-dash/internal/domain"
)

// Upstream define las dos lecturas contra la API de mercado.
type Upstream interface {
	Markets(ctx context.Context, currency string) ([]domain.MarketEntry, error)
	CoinDetail(ctx context.Context, id string) (json.RawMessage, error)
	MarketChart(ctx context.Context, id, currency string, days int) (json.RawMessage, error)
}

var (
	// ErrUpstreamRateLimited indica un 429 del proveedor.
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	// ErrUpstreamUnavailable cubre el resto de fallas del proveedor.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Client implementa Upstream contra la API de CoinGecko.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Markets trae las primeras 250 monedas por capitalización.
func (c *Client) Markets(ctx context.Context, currency string) ([]domain.MarketEntry, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", "250")
	q.Set("page", "1")
	q.Set("price_change_percentage", "1h,24h,7d")
	q.Set("sparkline", "false")

	body, err := c.get(ctx, "/coins/markets?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var entries []domain.MarketEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode markets response: %w", err)
	}
	return entries, nil
}

// CoinDetail trae la ficha de una moneda. El payload se conserva crudo:
// la forma exacta es contrato del proveedor, no de este servicio.
func (c *Client) CoinDetail(ctx context.Context, id string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "false")

	return c.get(ctx, "/coins/"+url.PathEscape(id)+"?"+q.Encode())
}

// MarketChart trae la serie histórica; horaria hasta un día, diaria después.
func (c *Client) MarketChart(ctx context.Context, id, currency string, days int) (json.RawMessage, error) {
	interval := "daily"
	if days <= 1 {
		interval = "hourly"
	}
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("days", fmt.Sprintf("%d", days))
	q.Set("interval", interval)

	return c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart?"+q.Encode())
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Dashboard-App/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrUpstreamRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status=%d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstreamUnavailable, err)
	}
	return body, nil
}
