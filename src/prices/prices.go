// Package prices looks up current quotes for investment tickers.
package prices

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultTTL     = 30 * time.Second
	defaultTimeout = 10 * time.Second
)

type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

type lookupRequest struct {
	Symbols string `json:"symbols"`
}

// Client calls the price endpoint and caches each quote for TTL. It never
// retries; a failed lookup leaves callers to fall back on purchase prices.
type Client struct {
	url        string
	key        string
	httpClient *http.Client
	cache      *ristretto.Cache[string, decimal.Decimal]
	ttl        time.Duration
}

func NewClient(url, key string) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, decimal.Decimal]{
		NumCounters:        10000,
		MaxCost:            1000,
		IgnoreInternalCost: true,
		BufferItems:        64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create price cache")
	}
	return &Client{
		url:        url,
		key:        key,
		httpClient: &http.Client{Timeout: defaultTimeout},
		cache:      cache,
		ttl:        DefaultTTL,
	}, nil
}

func (c *Client) Enabled() bool {
	return c.url != ""
}

// Quotes returns the known prices for symbols. Symbols the service does not
// know are absent from the map. On error the map still holds cached quotes.
func (c *Client) Quotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(symbols))
	var missing []string
	for _, s := range symbols {
		if p, ok := c.cache.Get(s); ok {
			out[s] = p
			continue
		}
		missing = append(missing, s)
	}
	if len(missing) == 0 || !c.Enabled() {
		return out, nil
	}

	quotes, err := c.fetch(ctx, missing)
	if err != nil {
		return out, err
	}
	for _, q := range quotes {
		if !q.Price.IsPositive() {
			continue
		}
		out[q.Symbol] = q.Price
		c.cache.SetWithTTL(q.Symbol, q.Price, 1, c.ttl)
	}
	c.cache.Wait()
	return out, nil
}

func (c *Client) fetch(ctx context.Context, symbols []string) ([]Quote, error) {
	body, err := json.Marshal(lookupRequest{Symbols: strings.Join(symbols, ",")})
	if err != nil {
		return nil, errors.Wrap(err, "marshal price request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build price request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "price lookup")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("price lookup: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, errors.Wrap(err, "decode price response")
	}
	return quotes, nil
}

func (c *Client) Close() {
	c.cache.Close()
}
