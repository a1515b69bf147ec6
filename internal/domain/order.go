package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// SyntheticOrder is one randomized order derived from a price update.
// It is written to the sink immediately after creation and not retained.
type SyntheticOrder struct {
	Side     string          // "BUY", "SELL"
	Price    decimal.Decimal // Rounded to 2 decimal places
	Quantity int             // Lot size in [1,5]
}

// Line renders the order in the wire format consumed downstream:
// "<SIDE> <PRICE> <QUANTITY>". Price always carries exactly two
// fractional digits.
func (o SyntheticOrder) Line() string {
	return o.Side + " " + o.Price.StringFixed(2) + " " + strconv.Itoa(o.Quantity)
}
