// Package orderbook implements a single-instrument limit order book with
// strict price-time priority and exact decimal arithmetic.
//
// The book is single-threaded by design: no operation locks, blocks or
// spawns. Every call either fails before touching any state or applies its
// full effect. Callers sharing one book across goroutines must serialize
// access themselves (one writer per book).
package orderbook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderBook owns both book sides and the order index.
type OrderBook struct {
	bids *bookSide
	asks *bookSide

	// every resting order is in orders AND exactly one of bids/asks
	orders map[string]*Order

	// increments each time an order rests
	priority uint64
}

// New returns an empty book with the priority counter at zero.
func New() *OrderBook {
	return &OrderBook{
		bids:   newBookSide(BUY),
		asks:   newBookSide(SELL),
		orders: make(map[string]*Order),
	}
}

// ProcessLimitOrder matches the incoming order against the opposite side
// while it crosses, then rests any remainder at price on its own side.
// Trades are returned in the order they were generated, oldest maker first.
//
// Fails with ErrNonPositiveQuantity or ErrOrderAlreadyExists before any
// state is touched.
func (b *OrderBook) ProcessLimitOrder(id string, side Side, price, qty decimal.Decimal) ([]Trade, error) {
	if err := b.validate(id, qty); err != nil {
		return nil, err
	}

	crosses := func(best decimal.Decimal) bool { return price.Cmp(best) >= 0 }
	if side == SELL {
		crosses = func(best decimal.Decimal) bool { return price.Cmp(best) <= 0 }
	}

	trades, remaining := b.match(id, side, qty, crosses)

	if remaining.Sign() > 0 {
		b.rest(&Order{
			ID:        id,
			Side:      side,
			Price:     price,
			Remaining: remaining,
			Original:  qty,
		})
	}

	return trades, nil
}

// ProcessMarketOrder matches with no price limit, sweeping opposite levels
// while quantity and liquidity remain. The unfilled remainder is discarded:
// market orders never rest.
//
// The identifier space is shared with resting limit orders, so an ID that is
// currently resting fails with ErrOrderAlreadyExists. This keeps trade
// attribution unambiguous.
func (b *OrderBook) ProcessMarketOrder(id string, side Side, qty decimal.Decimal) ([]Trade, error) {
	if err := b.validate(id, qty); err != nil {
		return nil, err
	}

	trades, _ := b.match(id, side, qty, func(decimal.Decimal) bool { return true })
	return trades, nil
}

// CancelOrder removes a resting order from its price level, at whatever
// position it holds, and from the index. Cancelling an unknown or already
// removed ID fails with ErrOrderNotFound, so a second cancel of the same ID
// always fails.
func (b *OrderBook) CancelOrder(id string) error {
	o, ok := b.orders[id]
	if !ok {
		return ErrOrderNotFound
	}

	side := b.sideOf(o.Side)
	if level, ok := side.level(o.Price); ok {
		level.remove(id)
		if level.empty() {
			side.drop(level)
		}
	}
	delete(b.orders, id)

	return nil
}

func (b *OrderBook) validate(id string, qty decimal.Decimal) error {
	if qty.Sign() <= 0 {
		return ErrNonPositiveQuantity
	}
	if _, ok := b.orders[id]; ok {
		return ErrOrderAlreadyExists
	}
	return nil
}

// match walks the opposite side's best level front to back while the
// incoming order crosses, and returns the trades plus the unmatched
// remainder. Fully consumed makers are unlinked from level and index in the
// same step; drained levels are dropped from their side.
func (b *OrderBook) match(takerID string, side Side, qty decimal.Decimal, crosses func(best decimal.Decimal) bool) ([]Trade, decimal.Decimal) {
	opposite := b.sideOf(side.Opposite())

	var trades []Trade
	for qty.Sign() > 0 {
		level, ok := opposite.best()
		if !ok || !crosses(level.price) {
			break
		}

		maker := level.front()
		traded := decimal.Min(qty, maker.Remaining)

		qty = qty.Sub(traded)
		maker.Remaining = maker.Remaining.Sub(traded)

		trades = append(trades, Trade{
			MakerOrderID: maker.ID,
			TakerOrderID: takerID,
			Price:        maker.Price,
			Qty:          traded,
		})

		if maker.Remaining.Sign() == 0 {
			level.popFront()
			delete(b.orders, maker.ID)
			if level.empty() {
				opposite.drop(level)
			}
		}
	}

	return trades, qty
}

func (b *OrderBook) rest(o *Order) {
	b.priority++
	o.priority = b.priority

	b.sideOf(o.Side).getOrCreate(o.Price).push(o)
	b.orders[o.ID] = o
}

func (b *OrderBook) sideOf(side Side) *bookSide {
	if side == SELL {
		return b.asks
	}
	return b.bids
}

// BestPrice returns the best resting price on side: the maximum for bids,
// the minimum for asks.
func (b *OrderBook) BestPrice(side Side) (decimal.Decimal, bool) {
	level, ok := b.sideOf(side).best()
	if !ok {
		return decimal.Zero, false
	}
	return level.price, true
}

// BestOrderID returns the ID of the next order to be matched on side.
func (b *OrderBook) BestOrderID(side Side) (string, bool) {
	level, ok := b.sideOf(side).best()
	if !ok {
		return "", false
	}
	return level.front().ID, true
}

// BestPriceQuantity returns the best price on side together with the total
// quantity resting at it.
func (b *OrderBook) BestPriceQuantity(side Side) (price, qty decimal.Decimal, ok bool) {
	level, ok := b.sideOf(side).best()
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	return level.price, level.totalQty(), true
}

// MarketCost walks the opposite side without mutating anything and reports
// how much of a market order of qty could fill and at what signed cost:
// buys add to cost, sells subtract, so negative prices invert naturally.
func (b *OrderBook) MarketCost(side Side, qty decimal.Decimal) (filled, cost decimal.Decimal, err error) {
	if qty.Sign() <= 0 {
		return decimal.Zero, decimal.Zero, ErrNonPositiveQuantity
	}

	sign := decimal.NewFromInt(1)
	if side == SELL {
		sign = decimal.NewFromInt(-1)
	}

	remaining := qty
	filled, cost = decimal.Zero, decimal.Zero
	b.sideOf(side.Opposite()).walk(func(level *priceLevel) bool {
		for i := 0; i < level.size() && remaining.Sign() > 0; i++ {
			traded := decimal.Min(remaining, level.at(i).Remaining)
			remaining = remaining.Sub(traded)
			filled = filled.Add(traded)
			cost = cost.Add(sign.Mul(level.price).Mul(traded))
		}
		return remaining.Sign() > 0
	})

	return filled, cost, nil
}

// Depth returns up to n aggregated price levels on side, best first.
func (b *OrderBook) Depth(side Side, n int) []Level {
	if n <= 0 {
		return nil
	}

	levels := make([]Level, 0, n)
	b.sideOf(side).walk(func(l *priceLevel) bool {
		if len(levels) >= n {
			return false
		}
		levels = append(levels, Level{Price: l.price, Qty: l.totalQty(), Count: l.size()})
		return true
	})
	return levels
}

// Len returns the number of orders resting on side.
func (b *OrderBook) Len(side Side) int {
	n := 0
	b.sideOf(side).walk(func(l *priceLevel) bool {
		n += l.size()
		return true
	})
	return n
}

// String renders the book for debugging: asks from worst to best, then bids
// from best to worst, so the touch sits in the middle.
func (b *OrderBook) String() string {
	const pad = 18

	var sb strings.Builder
	fmt.Fprintf(&sb, "%*s%*s%*s%*s\n", pad, "ID", pad, "SIDE", pad, "PRICE", pad, "QTY")

	row := func(o *Order) string {
		return fmt.Sprintf("%*s%*s%*s%*s\n", pad, o.ID, pad, string(o.Side), pad, o.Price.String(), pad, o.Remaining.String())
	}

	var asks []string
	b.asks.walk(func(l *priceLevel) bool {
		for i := 0; i < l.size(); i++ {
			asks = append(asks, row(l.at(i)))
		}
		return true
	})
	for i := len(asks) - 1; i >= 0; i-- {
		sb.WriteString(asks[i])
	}

	b.bids.walk(func(l *priceLevel) bool {
		for i := 0; i < l.size(); i++ {
			sb.WriteString(row(l.at(i)))
		}
		return true
	})

	return sb.String()
}
