package orderbook

import (
	"github.com/gammazero/deque"
	"github.com/shopspring/decimal"
)

// priceLevel is the FIFO of resting orders sharing one exact price. Orders
// are appended at the back and matched from the front; price ordering is the
// bookSide's job, not the level's.
type priceLevel struct {
	price  decimal.Decimal
	orders deque.Deque[*Order]
}

func newPriceLevel(price decimal.Decimal) *priceLevel {
	return &priceLevel{price: price}
}

func (l *priceLevel) push(o *Order) {
	l.orders.PushBack(o)
}

// front returns the oldest order. The level is never kept on its side while
// empty, so callers holding a level from the tree may call this directly.
func (l *priceLevel) front() *Order {
	return l.orders.Front()
}

func (l *priceLevel) popFront() *Order {
	return l.orders.PopFront()
}

// remove unlinks the order with the given id from any position in the FIFO.
func (l *priceLevel) remove(id string) bool {
	i := l.orders.Index(func(o *Order) bool { return o.ID == id })
	if i < 0 {
		return false
	}
	l.orders.Remove(i)
	return true
}

func (l *priceLevel) empty() bool {
	return l.orders.Len() == 0
}

func (l *priceLevel) size() int {
	return l.orders.Len()
}

func (l *priceLevel) at(i int) *Order {
	return l.orders.At(i)
}

// totalQty sums the remaining quantity resting at this price.
func (l *priceLevel) totalQty() decimal.Decimal {
	qty := decimal.Zero
	for i := 0; i < l.orders.Len(); i++ {
		qty = qty.Add(l.orders.At(i).Remaining)
	}
	return qty
}
