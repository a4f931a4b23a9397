// Package gnosis is the client for the card dashboard's backend API. It
// attaches the captured bearer token and walks the paginated transactions
// endpoint; everything else about authentication lives outside this module.
package gnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cardlens/internal/models"
	"cardlens/internal/parsererror"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.gnosispay.com"

// pageSize is the transactions page size used while paginating.
const pageSize = 100

// ErrNoToken signals that no bearer token was captured; callers fall back to
// scraped-only data rather than failing.
var ErrNoToken = errors.New("no auth token available")

// TokenProvider supplies the captured bearer token. An empty string means
// unauthenticated.
type TokenProvider interface {
	Token() string
}

// StaticToken adapts a fixed token string to TokenProvider.
type StaticToken string

// Token implements TokenProvider.
func (s StaticToken) Token() string { return string(s) }

// Client talks to the dashboard API.
type Client struct {
	baseURL string
	tokens  TokenProvider
	http    *http.Client
}

// NewClient builds a Client; empty baseURL and nil httpClient use defaults.
func NewClient(baseURL string, tokens TokenProvider, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, tokens: tokens, http: httpClient}
}

// TransactionsPage is one page of the transactions endpoint. Older API
// versions used "transactions" instead of "results".
type TransactionsPage struct {
	Results      []models.RawAPITransaction `json:"results"`
	Transactions []models.RawAPITransaction `json:"transactions"`
	Next         string                     `json:"next"`
	Count        int                        `json:"count"`
}

func (p *TransactionsPage) rows() []models.RawAPITransaction {
	if len(p.Results) > 0 {
		return p.Results
	}
	return p.Transactions
}

// FetchCards returns the account's cards. Requires a token.
func (c *Client) FetchCards(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := c.get(ctx, "/api/v1/cards", &cards); err != nil {
		return nil, err
	}
	log.WithField("count", len(cards)).Debug("Fetched cards")
	return cards, nil
}

// FetchTransactionsPage returns a single page at the given offset.
func (c *Client) FetchTransactionsPage(ctx context.Context, offset, limit int) (*TransactionsPage, error) {
	path := fmt.Sprintf("/api/v1/cards/transactions?offset=%d&limit=%d", offset, limit)
	var page TransactionsPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchTransactions walks every page sequentially, following the next URL's
// offset parameter, and returns the full result set in chronological
// (oldest-first) order. Pages arrive newest-first, so the concatenation is
// reversed before returning.
func (c *Client) FetchTransactions(ctx context.Context) ([]models.RawAPITransaction, error) {
	// Count probe; failure is not fatal, the loop discovers the end anyway.
	if probe, err := c.FetchTransactionsPage(ctx, 0, 1); err == nil {
		log.WithField("count", probe.Count).Debug("Transaction count probe")
	}

	var all []models.RawAPITransaction
	offset := 0
	for {
		page, err := c.FetchTransactionsPage(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.rows()...)

		if page.Next == "" {
			break
		}
		next, ok := offsetFromNext(page.Next)
		if !ok {
			next = offset + pageSize
		}
		if next <= offset {
			// Defend against a next URL that does not advance.
			break
		}
		offset = next
	}

	reverse(all)
	log.WithField("count", len(all)).Info("Fetched transactions from API")
	return all, nil
}

func offsetFromNext(next string) (int, bool) {
	u, err := url.Parse(next)
	if err != nil {
		return 0, false
	}
	raw := u.Query().Get("offset")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func reverse(txs []models.RawAPITransaction) {
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}
}

func (c *Client) get(ctx context.Context, path string, into interface{}) error {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if token == "" {
		return ErrNoToken
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &parsererror.NetworkError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &parsererror.NetworkError{Endpoint: endpoint, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return &parsererror.NetworkError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return &parsererror.NetworkError{Endpoint: endpoint, Err: err}
	}
	return nil
}
