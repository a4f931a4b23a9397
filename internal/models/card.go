package models

// Card is a payment card as returned by the cards endpoint. Fetched once per
// session and never mutated.
type Card struct {
	ID             string `json:"id"`
	CardToken      string `json:"cardToken"`
	LastFourDigits string `json:"lastFourDigits"`
	ActivatedAt    string `json:"activatedAt"`
	StatusCode     int    `json:"statusCode"`
	StatusName     string `json:"statusName"`
	Virtual        bool   `json:"virtual"`
}

// CardMap resolves an opaque card token to the card's last four digits for
// display and export.
type CardMap map[string]string

// NewCardMap builds the token lookup from a fetched card list. Cards missing
// either field are skipped.
func NewCardMap(cards []Card) CardMap {
	m := make(CardMap, len(cards))
	for _, card := range cards {
		if card.CardToken != "" && card.LastFourDigits != "" {
			m[card.CardToken] = card.LastFourDigits
		}
	}
	return m
}

// LastFour returns the display digits for a token, or "" when unknown.
func (m CardMap) LastFour(token string) string {
	return m[token]
}
