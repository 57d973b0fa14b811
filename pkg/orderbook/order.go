package orderbook

import "github.com/shopspring/decimal"

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == BUY {
		return SELL
	}
	return BUY
}

// Order is a resting order. Remaining is strictly positive for as long as
// the order is on the book; the order is unlinked the moment it hits zero.
type Order struct {
	ID        string
	Side      Side
	Price     decimal.Decimal
	Remaining decimal.Decimal
	Original  decimal.Decimal

	// assigned when the order rests; establishes time priority at equal price
	priority uint64
}
