package journal

import (
	"context"
	"sync"
)

// MemoryJournal keeps trade events in memory, grouped by symbol. Used in
// tests and anywhere persistence is not wired.
type MemoryJournal struct {
	mu     sync.RWMutex
	trades map[string][]*TradeEvent
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		trades: make(map[string][]*TradeEvent),
	}
}

func (j *MemoryJournal) AppendTrades(_ context.Context, events []*TradeEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, ev := range events {
		j.trades[ev.Symbol] = append(j.trades[ev.Symbol], ev)
	}
	return nil
}

// Trades returns a copy of the events journaled for symbol, oldest first.
func (j *MemoryJournal) Trades(symbol string) []*TradeEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]*TradeEvent, len(j.trades[symbol]))
	copy(out, j.trades[symbol])
	return out
}
