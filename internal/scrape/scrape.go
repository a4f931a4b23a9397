// Package scrape supplies transaction rows captured from the dashboard's
// rendered transaction list. The capture itself happens elsewhere; this
// package defines the source interface and a reader for exported captures.
package scrape

import (
	"context"
	"encoding/json"
	"io"
	"os"

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

// Scraper yields the visible transaction rows in chronological
// (oldest-first) order.
type Scraper interface {
	Scrape(ctx context.Context) ([]models.ScrapedTransaction, error)
}

// FixtureScraper reads a JSON capture of the rendered transaction list. The
// capture preserves on-screen order (newest first); Scrape reverses it into
// chronological order.
type FixtureScraper struct {
	Path string
}

// NewFixtureScraper returns a scraper backed by the capture file at path.
func NewFixtureScraper(path string) *FixtureScraper {
	return &FixtureScraper{Path: path}
}

// Scrape implements Scraper.
func (s *FixtureScraper) Scrape(ctx context.Context) ([]models.ScrapedTransaction, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close capture file")
		}
	}()
	return Read(f)
}

// Read decodes a capture from r and returns the rows oldest first.
func Read(r io.Reader) ([]models.ScrapedTransaction, error) {
	var rows []models.ScrapedTransaction
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, &parsererror.ParseError{Reason: "invalid transaction capture: " + err.Error()}
	}
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	log.WithField("count", len(rows)).Debug("Read scraped transactions")
	return rows, nil
}
