package orderbook

import (
	"testing"
)

func TestBookSideBestDirection(t *testing.T) {
	bids := newBookSide(BUY)
	asks := newBookSide(SELL)

	for _, p := range []string{"10", "30", "20"} {
		bids.getOrCreate(d(p))
		asks.getOrCreate(d(p))
	}

	if best, _ := bids.best(); !best.price.Equal(d("30")) {
		t.Errorf("expected best bid level 30, got %s", best.price)
	}
	if best, _ := asks.best(); !best.price.Equal(d("10")) {
		t.Errorf("expected best ask level 10, got %s", best.price)
	}
}

func TestBookSideGetOrCreateReuses(t *testing.T) {
	side := newBookSide(SELL)

	a := side.getOrCreate(d("10"))
	b := side.getOrCreate(d("10.00"))
	if a != b {
		t.Fatalf("equal prices must share one level")
	}

	side.drop(a)
	if !side.empty() {
		t.Errorf("expected empty side after dropping its only level")
	}
	if _, ok := side.best(); ok {
		t.Errorf("expected no best level on empty side")
	}
}

func TestBookSideWalkOrder(t *testing.T) {
	side := newBookSide(BUY)
	for _, p := range []string{"-5", "3", "-1", "7"} {
		side.getOrCreate(d(p))
	}

	var seen []string
	side.walk(func(l *priceLevel) bool {
		seen = append(seen, l.price.String())
		return true
	})

	want := []string{"7", "3", "-1", "-5"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d levels, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("walk order: expected %v, got %v", want, seen)
			break
		}
	}
}
