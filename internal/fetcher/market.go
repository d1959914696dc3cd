package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
)

const (
	tickersPath = "/tickers"
	fxPath      = "/fx"
)

// Options parameterise the market data client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches coin tickers and exchange rates over HTTP.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs a market data client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "market_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// FetchTickers retrieves USD quotes for the given coins. Coins unknown to the
// upstream API are simply absent from the result.
func (c *Client) FetchTickers(ctx context.Context, coins []string) (market.Data, error) {
	if c.baseURL == "" {
		return nil, errors.New("market base url not configured")
	}
	if len(coins) == 0 {
		return market.Data{}, nil
	}

	lowered := make([]string, len(coins))
	for i, coin := range coins {
		lowered[i] = strings.ToLower(coin)
	}

	endpoint := fmt.Sprintf("%s%s?coins=%s", c.baseURL, tickersPath, url.QueryEscape(strings.Join(lowered, ",")))
	payload, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var data market.Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}

	c.logger.Debug().Int("requested", len(coins)).Int("resolved", len(data)).Msg("tickers fetched")
	return data, nil
}

// FetchRate retrieves the USD-to-currency scalar. USD short-circuits to 1.
func (c *Client) FetchRate(ctx context.Context, currency string) (decimal.Decimal, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == "USD" {
		return decimal.NewFromInt(1), nil
	}
	if c.baseURL == "" {
		return decimal.Decimal{}, errors.New("market base url not configured")
	}

	endpoint := fmt.Sprintf("%s%s/%s", c.baseURL, fxPath, url.PathEscape(currency))
	payload, err := c.get(ctx, endpoint)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var body struct {
		Rate decimal.Decimal `json:"rate"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode fx rate: %w", err)
	}
	if !body.Rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("fx rate for %s not positive", currency)
	}
	return body.Rate, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "coinwatch/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}
	return payload, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return fmt.Errorf("market api error (%d): %s", status, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("market api error (%d): %s", status, apiErr.Error)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("market api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("market api error (%d)", status)
}

var _ MarketFetcher = (*Client)(nil)
var _ RateFetcher = (*Client)(nil)
