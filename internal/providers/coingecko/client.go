// Package coingecko implements the market-data fetcher against the keyless
// CoinGecko v3 REST API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/coinpulse/coinpulse/internal/domain"
	"github.com/coinpulse/coinpulse/internal/net/ratelimit"
)

// ErrorKind classifies fetch failures.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport" // connection, DNS, timeout
	KindStatus    ErrorKind = "status"    // non-2xx response
	KindDecode    ErrorKind = "decode"    // body is not the expected JSON array
)

// FetchError is the failure signal for one fetch attempt. None of the kinds
// are retriable within a run; retrying is the external scheduler's call.
type FetchError struct {
	Kind   ErrorKind
	Status int // set for KindStatus
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("coingecko: unexpected status %d", e.Status)
	default:
		return fmt.Sprintf("coingecko: %s failure: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RateLimited reports whether the upstream rejected the call for quota
// reasons. Callers use it to print the wait-and-retry hint.
func (e *FetchError) RateLimited() bool {
	return e.Kind == KindStatus && e.Status == http.StatusTooManyRequests
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	VsCurrency string
	PerPage    int
	Page       int
	Timeout    time.Duration
	APIKey     string // optional demo key, sent as x-cg-demo-api-key
}

// Client fetches one page of market listings. Every Fetch passes the rate
// gate first, then runs the request inside a circuit breaker so a process
// kept alive by a wrapper cannot hammer a failing upstream.
type Client struct {
	opts    Options
	client  *http.Client
	gate    *ratelimit.Gate
	breaker *gobreaker.CircuitBreaker
}

// NewClient builds a client around the given gate.
func NewClient(opts Options, gate *ratelimit.Gate) *Client {
	return &Client{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		gate:   gate,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "coingecko",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Fetch issues the run's single GET to /coins/markets and returns the raw
// records in upstream order. Any failure is a *FetchError; no retry is
// attempted.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawAsset, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("rate gate: %w", err)}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx)
	})
	if err != nil {
		if fe, ok := err.(*FetchError); ok {
			return nil, fe
		}
		// Breaker open or half-open rejection.
		return nil, &FetchError{Kind: KindTransport, Err: err}
	}
	return result.([]domain.RawAsset), nil
}

func (c *Client) doFetch(ctx context.Context) ([]domain.RawAsset, error) {
	params := url.Values{}
	params.Set("vs_currency", c.opts.VsCurrency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(c.opts.PerPage))
	params.Set("page", strconv.Itoa(c.opts.Page))
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "24h")

	fullURL := fmt.Sprintf("%s/coins/markets?%s", c.opts.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.opts.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: KindStatus, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("read response: %w", err)}
	}

	var assets []domain.RawAsset
	if err := json.Unmarshal(body, &assets); err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return assets, nil
}
