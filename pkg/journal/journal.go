package journal

import "context"

// Journal receives executed trades for storage. Implementations must accept
// batches: one matching pass can produce many trades.
type Journal interface {
	AppendTrades(ctx context.Context, events []*TradeEvent) error
}
