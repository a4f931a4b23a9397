// Package pipeline orchestrates the refresh cycle: fetch both transaction
// sources concurrently, reconcile them into the canonical list, and manage
// saved tags and CSV tag imports on top of it.
package pipeline

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"cardlens/internal/gnosis"
	"cardlens/internal/models"
	"cardlens/internal/normalize"
	"cardlens/internal/scrape"
	"cardlens/internal/store"
	"cardlens/internal/tagcsv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ErrBusy is returned when a CSV import is requested while another one is
// still running.
var ErrBusy = errors.New("a tag import is already in progress")

// API is the slice of the dashboard client the pipeline needs.
type API interface {
	FetchCards(ctx context.Context) ([]models.Card, error)
	FetchTransactions(ctx context.Context) ([]models.RawAPITransaction, error)
}

// Service ties the two transaction sources and the tag store together and
// holds the current reconciled list.
type Service struct {
	api     API
	scraper scrape.Scraper
	tags    *store.TagStore

	importing    atomic.Bool
	transactions []models.Transaction
	cards        models.CardMap
}

// NewService builds a Service. Either source may be nil; Refresh treats a nil
// source the same as one that returned nothing.
func NewService(api API, scraper scrape.Scraper, tags *store.TagStore) *Service {
	return &Service{api: api, scraper: scraper, tags: tags}
}

// Refresh fetches both sources concurrently and rebuilds the reconciled
// transaction list. A failing source degrades to an empty list instead of
// failing the refresh; only if both yield nothing is an error returned.
func (s *Service) Refresh(ctx context.Context) ([]models.Transaction, error) {
	var (
		apiTxs  []models.RawAPITransaction
		scraped []models.ScrapedTransaction
		cards   []models.Card
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.api == nil {
			return nil
		}
		txs, err := s.api.FetchTransactions(gctx)
		if err != nil {
			if errors.Is(err, gnosis.ErrNoToken) {
				log.Info("No auth token; using scraped data only")
			} else {
				log.WithError(err).Warn("API fetch failed; using scraped data only")
			}
			return nil
		}
		apiTxs = txs

		if fetched, err := s.api.FetchCards(gctx); err == nil {
			cards = fetched
		} else {
			log.WithError(err).Warn("Card fetch failed")
		}
		return nil
	})
	g.Go(func() error {
		if s.scraper == nil {
			return nil
		}
		rows, err := s.scraper.Scrape(gctx)
		if err != nil {
			log.WithError(err).Warn("Scrape failed; using API data only")
			return nil
		}
		scraped = rows
		return nil
	})
	// Source errors are downgraded above, so this cannot fail; keep the
	// check in case that changes.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(apiTxs) == 0 && len(scraped) == 0 {
		return nil, errors.New("no transaction data available from any source")
	}

	saved := map[int]models.Tags{}
	if s.tags != nil {
		loaded, err := s.tags.Load()
		if err != nil {
			log.WithError(err).Warn("Failed to load saved tags")
		} else {
			saved = loaded
		}
	}

	s.transactions = normalize.Normalize(apiTxs, scraped, saved)
	s.cards = models.NewCardMap(cards)

	log.WithFields(logrus.Fields{
		"api":     len(apiTxs),
		"scraped": len(scraped),
		"total":   len(s.transactions),
	}).Info("Refreshed transactions")
	return s.transactions, nil
}

// Transactions returns the current reconciled list.
func (s *Service) Transactions() []models.Transaction { return s.transactions }

// Cards returns the token-to-last-four lookup from the last refresh.
func (s *Service) Cards() models.CardMap { return s.cards }

// ImportResult reports the outcome of a CSV tag import.
type ImportResult struct {
	Rows    int // parsed CSV rows
	Matched int // rows matched to a transaction
	Skipped int // rows with no usable match
	Applied int // transactions whose tags actually changed
}

// ImportTagsCSV parses a tag CSV, matches its rows against the current list,
// applies the tags and persists them. Returns ErrBusy when an import is
// already running.
func (s *Service) ImportTagsCSV(r io.Reader) (*ImportResult, error) {
	if !s.importing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.importing.Store(false)

	rows, err := tagcsv.Parse(r)
	if err != nil {
		return nil, err
	}

	pairs, summary := tagcsv.MatchAll(rows, s.transactions)
	applied := tagcsv.Apply(pairs)

	if err := s.SaveTags(); err != nil {
		return nil, err
	}

	result := &ImportResult{
		Rows:    len(rows),
		Matched: summary.Matched,
		Skipped: summary.Skipped,
		Applied: applied,
	}
	log.WithFields(logrus.Fields{
		"rows":    result.Rows,
		"matched": result.Matched,
		"skipped": result.Skipped,
		"applied": result.Applied,
	}).Info("Imported tags from CSV")
	return result, nil
}

// SetTags replaces the tags on the transaction with the given row index and
// persists the change.
func (s *Service) SetTags(rowIndex int, tags models.Tags) error {
	for i := range s.transactions {
		if s.transactions[i].RowIndex == rowIndex {
			s.transactions[i].Tags = tags
			return s.SaveTags()
		}
	}
	return errors.New("no transaction with that row index")
}

// SaveTags persists every non-empty tag set keyed by row index.
func (s *Service) SaveTags() error {
	if s.tags == nil {
		return nil
	}
	byIndex := map[int]models.Tags{}
	for _, tx := range s.transactions {
		if tx.Tag1 != "" || tx.Tag2 != "" || tx.Tag3 != "" {
			byIndex[tx.RowIndex] = tx.Tags
		}
	}
	return s.tags.Save(byIndex)
}

// ClearTags removes every tag in memory and deletes the tag file.
func (s *Service) ClearTags() error {
	for i := range s.transactions {
		s.transactions[i].Tags = models.Tags{}
	}
	if s.tags == nil {
		return nil
	}
	return s.tags.Clear()
}
