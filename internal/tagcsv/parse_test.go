package tagcsv

import (
	"strings"
	"testing"

	"cardlens/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"header only", "date,tag1\n"},
		{"empty", ""},
		{"no date or hash column", "merchant,amount,tag1\nShop,1.00,food\n"},
		{"no tag column", "date,merchant,amount\n2024-03-01,Shop,1.00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			var perr *parsererror.ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseHeaderAliases(t *testing.T) {
	csv := "Created_At,Merchant_Name,Billing_Amount,Tag 1,transaction_hash\n" +
		"2024-03-01,Coffee Shop,4.50,food,0xabc\n"
	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2024-03-01", row.CreatedAt)
	assert.Equal(t, "Coffee Shop", row.Merchant)
	assert.Equal(t, "4.50", row.Amount)
	assert.Equal(t, "food", row.Tag1)
	assert.Equal(t, "0xabc", row.TxHash)
	assert.True(t, row.HasTag1)
	assert.False(t, row.HasTag2)
	assert.Equal(t, 1, row.CSVRowIndex)
}

func TestParseQuotedFields(t *testing.T) {
	csv := `date,merchant,tag1
2024-03-01,"Butcher, Baker ""and"" Candlestick",meat
`
	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, `Butcher, Baker "and" Candlestick`, rows[0].Merchant)
}

func TestParseSkipsDefectiveRows(t *testing.T) {
	csv := "date,txhash,tag1\n" +
		"2024-03-01,,food\n" + // kept
		",,food\n" + // no date, no hash
		"not a date,,food\n" + // unparseable date, no hash
		"not a date,0xabc123,food\n" + // bad date but hash present: kept
		"2024-03-02,,\n" + // no tag values
		"\n" + // blank
		"2024-03-03,,drinks\n" // kept
	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "food", rows[0].Tag1)
	assert.Equal(t, "0xabc123", rows[1].TxHash)
	assert.Equal(t, "drinks", rows[2].Tag1)
}

func TestParseBOMHeader(t *testing.T) {
	csv := "\uFEFFdate,tag1\n2024-03-01,food\n"
	rows, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-01", rows[0].CreatedAt)
}
