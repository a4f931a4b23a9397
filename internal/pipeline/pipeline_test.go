package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"cardlens/internal/models"
	"cardlens/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	txs   []models.RawAPITransaction
	cards []models.Card
	err   error
}

func (s *stubAPI) FetchTransactions(ctx context.Context) ([]models.RawAPITransaction, error) {
	return s.txs, s.err
}

func (s *stubAPI) FetchCards(ctx context.Context) ([]models.Card, error) {
	return s.cards, s.err
}

type stubScraper struct {
	rows []models.ScrapedTransaction
	err  error
}

func (s *stubScraper) Scrape(ctx context.Context) ([]models.ScrapedTransaction, error) {
	return s.rows, s.err
}

func TestRefreshMergesBothSources(t *testing.T) {
	api := &stubAPI{
		txs: []models.RawAPITransaction{
			{CreatedAt: "2024-03-01T10:00:00Z", BillingAmount: "450", MCC: "5812"},
		},
		cards: []models.Card{{CardToken: "tok1", LastFourDigits: "4242"}},
	}
	scraper := &stubScraper{
		rows: []models.ScrapedTransaction{
			{CreatedAt: "MAR 1, 2024", MerchantName: "COFFEE SHOP", BillingAmount: decimal.NewFromFloat(4.5)},
		},
	}

	svc := NewService(api, scraper, store.NewTagStore(t.TempDir()))
	txs, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "COFFEE SHOP", txs[0].Merchant.Name)
	assert.Equal(t, "5812", txs[0].MCC)
	assert.Equal(t, "4242", svc.Cards().LastFour("tok1"))
}

func TestRefreshFallsBackToScrapedOnly(t *testing.T) {
	api := &stubAPI{err: errors.New("401")}
	scraper := &stubScraper{
		rows: []models.ScrapedTransaction{
			{CreatedAt: "MAR 1, 2024", MerchantName: "SHOP", BillingAmount: decimal.NewFromInt(10)},
		},
	}

	svc := NewService(api, scraper, nil)
	txs, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "SHOP", txs[0].Merchant.Name)
}

func TestRefreshBothSourcesEmpty(t *testing.T) {
	svc := NewService(&stubAPI{err: errors.New("down")}, &stubScraper{err: errors.New("down")}, nil)
	_, err := svc.Refresh(context.Background())
	assert.Error(t, err)
}

func TestRefreshRestoresSavedTags(t *testing.T) {
	tags := store.NewTagStore(t.TempDir())
	require.NoError(t, tags.Save(map[int]models.Tags{0: {Tag1: "groceries"}}))

	svc := NewService(&stubAPI{
		txs: []models.RawAPITransaction{{CreatedAt: "2024-03-01T10:00:00Z", BillingAmount: "100"}},
	}, nil, tags)

	txs, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "groceries", txs[0].Tag1)
}

func TestImportTagsCSV(t *testing.T) {
	tags := store.NewTagStore(t.TempDir())
	svc := NewService(&stubAPI{
		txs: []models.RawAPITransaction{{CreatedAt: "2024-03-01T10:00:00Z", BillingAmount: "450"}},
	}, nil, tags)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	csv := "date,tag1\n2024-03-01,groceries\n"
	result, err := svc.ImportTagsCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, "groceries", svc.Transactions()[0].Tag1)

	// The import persisted.
	saved, err := tags.Load()
	require.NoError(t, err)
	assert.Equal(t, "groceries", saved[0].Tag1)
}

// reentrantReader re-enters ImportTagsCSV from inside a running import to
// prove the busy guard holds.
type reentrantReader struct {
	svc   *Service
	inner io.Reader
	err   error
	done  bool
}

func (r *reentrantReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		_, r.err = r.svc.ImportTagsCSV(strings.NewReader("date,tag1\n2024-03-01,x\n"))
	}
	return r.inner.Read(p)
}

func TestImportTagsCSVBusy(t *testing.T) {
	svc := NewService(&stubAPI{
		txs: []models.RawAPITransaction{{CreatedAt: "2024-03-01T10:00:00Z", BillingAmount: "100"}},
	}, nil, store.NewTagStore(t.TempDir()))
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	r := &reentrantReader{svc: svc, inner: strings.NewReader("date,tag1\n2024-03-01,groceries\n")}
	_, err = svc.ImportTagsCSV(r)
	require.NoError(t, err)
	assert.ErrorIs(t, r.err, ErrBusy)
}

func TestSetAndClearTags(t *testing.T) {
	tags := store.NewTagStore(t.TempDir())
	svc := NewService(&stubAPI{
		txs: []models.RawAPITransaction{{CreatedAt: "2024-03-01T10:00:00Z", BillingAmount: "100"}},
	}, nil, tags)
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.SetTags(0, models.Tags{Tag1: "travel"}))
	assert.Equal(t, "travel", svc.Transactions()[0].Tag1)

	assert.Error(t, svc.SetTags(99, models.Tags{Tag1: "x"}))

	require.NoError(t, svc.ClearTags())
	assert.Empty(t, svc.Transactions()[0].Tag1)
	saved, err := tags.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}
