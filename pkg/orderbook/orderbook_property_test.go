package orderbook

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

// genPrice draws an exact price in a narrow band (including negatives) so
// that random orders cross often.
func genPrice(t *rapid.T) decimal.Decimal {
	units := rapid.Int64Range(-20, 20).Draw(t, "units")
	cents := rapid.Int64Range(0, 99).Draw(t, "cents")
	return decimal.New(units*100+cents, -2)
}

func genQty(t *rapid.T) decimal.Decimal {
	return decimal.New(rapid.Int64Range(1, 500).Draw(t, "qty"), -1)
}

// TestProperty_RandomOperationSequence drives the book with random limit,
// market and cancel operations, checking the book invariants after every
// call.
func TestProperty_RandomOperationSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ob := New()
		resting := map[string]bool{}
		nextID := 0

		ops := rapid.IntRange(1, 120).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			side := BUY
			if rapid.Bool().Draw(t, "sell") {
				side = SELL
			}

			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0, 1:
				nextID++
				id := fmt.Sprintf("L%d", nextID)
				qty := genQty(t)
				trades, err := ob.ProcessLimitOrder(id, side, genPrice(t), qty)
				if err != nil {
					t.Fatalf("fresh limit order rejected: %v", err)
				}
				checkTrades(t, trades, qty)
				// the order may now be resting, partially filled or gone
				resting[id] = true
			case 2:
				nextID++
				id := fmt.Sprintf("M%d", nextID)
				qty := genQty(t)
				trades, err := ob.ProcessMarketOrder(id, side, qty)
				if err != nil {
					t.Fatalf("fresh market order rejected: %v", err)
				}
				checkTrades(t, trades, qty)
				// market orders never rest
				if err := ob.CancelOrder(id); err != ErrOrderNotFound {
					t.Fatalf("market order %s rested: %v", id, err)
				}
			case 3:
				// cancel some previously submitted id; it succeeds at most
				// once, whether it was resting or already consumed
				for id := range resting {
					err := ob.CancelOrder(id)
					delete(resting, id)
					if err == nil {
						if again := ob.CancelOrder(id); again != ErrOrderNotFound {
							t.Fatalf("second cancel of %s: %v", id, again)
						}
					} else if err != ErrOrderNotFound {
						t.Fatalf("unexpected cancel error for %s: %v", id, err)
					}
					break
				}
			}

			checkNotCrossed(t, ob)
		}
	})
}

// TestProperty_LevelFIFOOrdering rests random orders and checks that within
// every price level the insertion sequence strictly increases front to back.
func TestProperty_LevelFIFOOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ob := New()
		n := rapid.IntRange(1, 80).Draw(t, "n")
		for i := 0; i < n; i++ {
			// one-sided so nothing matches
			_, err := ob.ProcessLimitOrder(fmt.Sprintf("B%d", i), BUY, genPrice(t), genQty(t))
			if err != nil {
				t.Fatalf("order rejected: %v", err)
			}
		}

		ob.bids.walk(func(l *priceLevel) bool {
			var prev uint64
			for i := 0; i < l.size(); i++ {
				o := l.at(i)
				if o.priority <= prev {
					t.Fatalf("priority not strictly increasing at price %s: %d after %d", l.price, o.priority, prev)
				}
				prev = o.priority
				if o.Remaining.Sign() <= 0 {
					t.Fatalf("resting order %s has non-positive remaining %s", o.ID, o.Remaining)
				}
			}
			return true
		})
	})
}

func checkTrades(t *rapid.T, trades []Trade, submitted decimal.Decimal) {
	sum := decimal.Zero
	for _, tr := range trades {
		if tr.Qty.Sign() <= 0 {
			t.Fatalf("non-positive trade quantity: %+v", tr)
		}
		sum = sum.Add(tr.Qty)
	}
	if sum.Cmp(submitted) > 0 {
		t.Fatalf("matched %s exceeds submitted %s", sum, submitted)
	}
}

func checkNotCrossed(t *rapid.T, ob *OrderBook) {
	bid, bidOK := ob.BestPrice(BUY)
	ask, askOK := ob.BestPrice(SELL)
	if bidOK && askOK && bid.Cmp(ask) >= 0 {
		t.Fatalf("book left crossed: bid %s >= ask %s", bid, ask)
	}
}
