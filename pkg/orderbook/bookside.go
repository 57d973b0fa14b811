package orderbook

import (
	"github.com/google/btree"
	"github.com/shopspring/decimal"
)

const btreeDegree = 32

// bookSide holds one direction's price levels, ordered so that Min() is the
// best level for that side: highest price first for bids, lowest first for
// asks. Prices compare with decimal.Cmp, so negative prices order the same
// way positive ones do.
type bookSide struct {
	levels *btree.BTreeG[*priceLevel]
}

func newBookSide(side Side) *bookSide {
	less := func(a, b *priceLevel) bool { return a.price.Cmp(b.price) < 0 }
	if side == BUY {
		less = func(a, b *priceLevel) bool { return a.price.Cmp(b.price) > 0 }
	}
	return &bookSide{levels: btree.NewG(btreeDegree, less)}
}

// best returns the level next in line to be matched, if any.
func (s *bookSide) best() (*priceLevel, bool) {
	return s.levels.Min()
}

func (s *bookSide) level(price decimal.Decimal) (*priceLevel, bool) {
	return s.levels.Get(&priceLevel{price: price})
}

func (s *bookSide) getOrCreate(price decimal.Decimal) *priceLevel {
	if l, ok := s.level(price); ok {
		return l
	}
	l := newPriceLevel(price)
	s.levels.ReplaceOrInsert(l)
	return l
}

// drop removes a drained level from the side.
func (s *bookSide) drop(l *priceLevel) {
	s.levels.Delete(l)
}

// walk visits levels best-first until fn returns false.
func (s *bookSide) walk(fn func(*priceLevel) bool) {
	s.levels.Ascend(fn)
}

func (s *bookSide) empty() bool {
	return s.levels.Len() == 0
}
