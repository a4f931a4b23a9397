// Package rates fetches USD exchange rates for the cashback calculator. Two
// public endpoints are tried in order; when both fail the calculator carries
// on with 1:1 rates and flags the result, so a rates outage never breaks the
// pipeline.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cardlens/internal/models"
	"cardlens/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultEndpoints are the rate providers in preference order. Both return
// {"rates": {"EUR": x, "GBP": y}} relative to USD.
var DefaultEndpoints = []string{
	"https://api.exchangerate.host/latest?base=USD&symbols=EUR,GBP",
	"https://open.er-api.com/v6/latest/USD",
}

// Rates holds USD-relative rates. Unavailable marks the hard-coded 1:1
// fallback taken when no provider answered.
type Rates struct {
	USDToEUR    decimal.Decimal
	USDToGBP    decimal.Decimal
	Unavailable bool
}

// Fallback returns the 1:1 rates used when every provider fails.
func Fallback() Rates {
	one := decimal.NewFromInt(1)
	return Rates{USDToEUR: one, USDToGBP: one, Unavailable: true}
}

// ToUSD converts an amount in the given currency into USD. USD and unknown
// currencies pass through unchanged; a zero rate also passes the amount
// through rather than dividing by zero.
func (r Rates) ToUSD(amount decimal.Decimal, code models.CurrencyCode) decimal.Decimal {
	var rate decimal.Decimal
	switch code {
	case models.EUR:
		rate = r.USDToEUR
	case models.GBP:
		rate = r.USDToGBP
	default:
		return amount
	}
	if rate.IsZero() {
		return amount
	}
	return amount.Div(rate)
}

// Client fetches rates over HTTP.
type Client struct {
	endpoints []string
	http      *http.Client
}

// NewClient builds a client over the given endpoints; nil/empty arguments
// fall back to the defaults.
func NewClient(endpoints []string, httpClient *http.Client) *Client {
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{endpoints: endpoints, http: httpClient}
}

type ratesPayload struct {
	Rates struct {
		EUR decimal.Decimal `json:"EUR"`
		GBP decimal.Decimal `json:"GBP"`
	} `json:"rates"`
}

// Fetch returns the first usable provider response, or the 1:1 fallback.
// It never returns an error: rate availability only degrades precision.
func (c *Client) Fetch(ctx context.Context) Rates {
	for _, endpoint := range c.endpoints {
		r, err := c.fetchOne(ctx, endpoint)
		if err != nil {
			log.WithError(err).WithField("endpoint", endpoint).Warn("Exchange-rate provider failed")
			continue
		}
		return r
	}
	log.Warn("All exchange-rate providers failed, using 1:1 rates")
	return Fallback()
}

func (c *Client) fetchOne(ctx context.Context, endpoint string) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Rates{}, &parsererror.NetworkError{Endpoint: endpoint, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Rates{}, &parsererror.NetworkError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Rates{}, &parsererror.NetworkError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Rates{}, &parsererror.NetworkError{Endpoint: endpoint, Err: err}
	}
	if payload.Rates.EUR.IsZero() || payload.Rates.GBP.IsZero() {
		return Rates{}, &parsererror.NetworkError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("response missing EUR/GBP rates"),
		}
	}

	return Rates{USDToEUR: payload.Rates.EUR, USDToGBP: payload.Rates.GBP}, nil
}
