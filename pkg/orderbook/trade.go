package orderbook

import "github.com/shopspring/decimal"

// Trade is one execution produced by a matching pass. Price is always the
// maker's resting price: price improvement accrues to the order that was
// waiting. Qty is strictly positive.
type Trade struct {
	MakerOrderID string
	TakerOrderID string
	Price        decimal.Decimal
	Qty          decimal.Decimal
}

// Level is one aggregated row of a depth snapshot.
type Level struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
	Count int
}
