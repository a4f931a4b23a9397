// Package category maps merchant-category codes to spending categories and
// decides cashback eligibility. Both lookups are static tables; the functions
// are pure and total.
package category

import (
	"strconv"
	"strings"

	"cardlens/internal/models"
)

// span is an inclusive range of MCC codes. Single codes are spans with
// Start == End.
type span struct {
	Start, End int
}

func code(n int) span { return span{Start: n, End: n} }

// rule binds a category to the MCC codes that select it.
type rule struct {
	Category models.Category
	Members  []span
}

// rules is evaluated in declaration order; the first rule containing the
// code wins, so overlapping codes (e.g. 7372) resolve to the earlier entry.
var rules = []rule{
	{models.CategoryAgricultural, []span{
		code(763), code(780), code(1711), code(1731), code(1740), code(1750),
		code(1761), code(1771), code(1799), code(2048), code(7699),
	}},
	{models.CategoryTransport, []span{
		{300, 3299}, {3351, 3441}, code(4011), code(4111), code(4112),
		code(4119), code(4121), code(4131), code(4511), code(7519), code(7523),
	}},
	{models.CategoryUtilities, []span{
		code(4812), code(4814), code(4899), code(4900), code(4821),
	}},
	{models.CategoryShopping, []span{
		code(5200), code(5211), {5231, 5251}, code(5261), code(5271),
		code(5300), code(5309), code(5310), code(5311), code(5331),
		code(5399), code(5944), code(5681), code(5942), code(5945),
		code(5977), code(5946), code(5947), code(5999),
	}},
	{models.CategoryGroceries, []span{
		code(5411), code(5422), code(5441), code(5451), code(5499), code(5424),
	}},
	{models.CategoryClothing, []span{
		code(5611), code(5621), code(5631), code(5641), code(5651),
		code(5655), code(5661), code(5681), code(5691), code(5697), code(5699),
	}},
	{models.CategoryDigital, []span{
		code(5815), code(5816), code(5817), code(5818), code(7372), code(5734),
	}},
	{models.CategoryDining, []span{
		code(5811), code(5812), code(5813), code(5814), code(5819), code(5462),
	}},
	{models.CategoryFinancial, []span{
		code(6012), {6050, 6051}, code(6211), code(6300), code(6529),
		code(6530), code(6531), code(6532), code(6533), code(6534),
		code(6535), code(6536), code(6537), code(6538), code(6760),
	}},
	{models.CategoryCash, []span{
		code(6010), code(6011),
	}},
	{models.CategoryServices, []span{
		code(7210), code(7211), code(7216), code(7217), code(7221),
		code(7230), code(7251), code(7261), code(7273), code(7276),
		code(7277), code(7278), code(7296), code(7297), code(7298),
		code(7299), code(7213), code(7215), code(7225),
	}},
	{models.CategoryBusiness, []span{
		code(7311), code(7321), code(7333), code(7338), code(7339),
		code(7342), code(7349), code(7361), code(7372), code(7375),
		code(7379), code(7393), code(7394), code(7395),
	}},
	{models.CategoryEntertainment, []span{
		code(7832), code(7841), code(7911), code(7922), code(7929),
		code(7932), code(7933), code(7941), code(7991), code(7992),
		code(7993), code(7994), code(7996), code(7997), code(7998),
		code(7999), code(7912), code(7935), code(7942),
	}},
	{models.CategoryHealth, []span{
		code(8011), code(8021), code(8031), code(8041), code(8042),
		code(8043), code(8049), code(8050), code(8071), code(5912),
		code(5975), code(5976),
	}},
	{models.CategoryEducation, []span{
		code(8211), code(8220), code(8241), code(8244), code(8249),
		code(8299), code(8351),
	}},
	{models.CategoryGovernment, []span{
		code(9399), code(9402), code(9405), code(9700), code(9701),
		code(9702), code(9211), code(9222),
	}},
	{models.CategoryHolidays, []span{
		{3501, 3835}, code(4411), code(4722),
	}},
	{models.CategoryFuel, []span{
		code(5541), code(5542), code(5543),
	}},
}

// noCashbackMCCs are codes the card scheme excludes from cashback. This is
// an independent lookup, not derivable from the category table.
var noCashbackMCCs = map[string]struct{}{}

func init() {
	for _, mcc := range []string{
		"6010", "6011", "6012", "6051", "6211", "7995", "9211", "9222",
		"9311", "9399", "8398", "6300", "8661", "8651", "4900", "6513",
		"4829", "5734", "5947", "6050", "6532", "6533", "6536", "6537",
		"6538", "6540", "6760", "7372", "8999", "9223", "9411", "9402",
	} {
		noCashbackMCCs[mcc] = struct{}{}
	}
}

// Classify returns the category for an MCC string. Empty, non-numeric or
// zero codes classify as Other.
func Classify(mcc string) models.Category {
	n, err := strconv.Atoi(strings.TrimSpace(mcc))
	if err != nil || n == 0 {
		return models.CategoryOther
	}
	for _, r := range rules {
		for _, s := range r.Members {
			if n >= s.Start && n <= s.End {
				return r.Category
			}
		}
	}
	return models.CategoryOther
}

// NoCashbackMCC reports whether the code is on the scheme's exclusion list.
func NoCashbackMCC(mcc string) bool {
	_, excluded := noCashbackMCCs[mcc]
	return excluded
}

// EligibleForCashback applies the full eligibility predicate: an approved,
// non-reversal transaction with a known MCC outside the exclusion list and a
// spend-like transaction type.
func EligibleForCashback(tx *models.Transaction) bool {
	if tx.MCC == "" || NoCashbackMCC(tx.MCC) {
		return false
	}
	switch tx.TransactionType {
	case models.TypeATMWithdrawal, models.TypeMoneyTransfer, models.TypeRefunded:
		return false
	}
	return tx.Status == models.StatusApproved && tx.Kind != models.KindReversal
}
