package domain

import "github.com/shopspring/decimal"

// PriceUpdate is a single best bid/ask observation from the feed.
// It is consumed immediately by the emitter and never stored.
type PriceUpdate struct {
	BestBid decimal.Decimal `json:"best_bid"`
	BestAsk decimal.Decimal `json:"best_ask"`
}

// Mid returns the mid-market price: (bid + ask) / 2.
func (u PriceUpdate) Mid() decimal.Decimal {
	return u.BestBid.Add(u.BestAsk).Div(decimal.NewFromInt(2))
}
