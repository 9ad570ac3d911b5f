package ledger

import "github.com/shopspring/decimal"

// Fractional digits the database keeps for each kind of value.
const (
	MoneyPlaces int32 = 2
	RatePlaces  int32 = 4
)

// FitsPlaces reports whether d has at most places significant fractional
// digits, so storing it loses nothing. Trailing zeros do not count.
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
