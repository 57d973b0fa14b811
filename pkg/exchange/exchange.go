// Package exchange wraps one orderbook per symbol behind the serialization
// boundary the book itself does not provide: every book is mutated under its
// own mutex, so callers may submit from any goroutine.
package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/limitbook/pkg/journal"
	"github.com/joripage/limitbook/pkg/logging"
	"github.com/joripage/limitbook/pkg/marketdata"
	"github.com/joripage/limitbook/pkg/orderbook"
)

// TradeFeed publishes executed trades downstream.
type TradeFeed interface {
	PublishTrades(ctx context.Context, msgs []marketdata.TradeMessage) error
}

// DepthStore keeps the latest depth snapshot per symbol.
type DepthStore interface {
	Store(ctx context.Context, snap *marketdata.DepthSnapshot) error
}

type Config struct {
	// DepthLevels is how many aggregated levels per side go into the
	// snapshot pushed after each book-mutating call. Zero disables snapshots.
	DepthLevels int `yaml:"depth_levels"`
}

// LimitOrder is a limit submission against one symbol's book.
type LimitOrder struct {
	Symbol  string
	OrderID string
	Side    orderbook.Side
	Price   decimal.Decimal
	Qty     decimal.Decimal
}

// MarketOrder is a market submission; it never rests.
type MarketOrder struct {
	Symbol  string
	OrderID string
	Side    orderbook.Side
	Qty     decimal.Decimal
}

type book struct {
	mu sync.Mutex
	ob *orderbook.OrderBook
}

type Exchange struct {
	cfg     *Config
	books   sync.Map // symbol -> *book
	journal journal.Journal

	feed  TradeFeed
	depth DepthStore

	cbMu      sync.Mutex
	callbacks []func(symbol string, trades []orderbook.Trade)
}

func New(cfg *Config, jnl journal.Journal) *Exchange {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Exchange{
		cfg:     cfg,
		journal: jnl,
	}
}

// SetFeed wires an optional trade feed publisher.
func (e *Exchange) SetFeed(f TradeFeed) {
	e.feed = f
}

// SetDepthStore wires an optional depth snapshot store.
func (e *Exchange) SetDepthStore(d DepthStore) {
	e.depth = d
}

// RegisterTradeCallback registers fn to run after every call that produced
// trades. Callbacks run on the submitting goroutine, after journaling.
func (e *Exchange) RegisterTradeCallback(fn func(symbol string, trades []orderbook.Trade)) {
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	e.callbacks = append(e.callbacks, fn)
}

// SubmitLimitOrder runs a limit order through the symbol's book. Trades are
// returned to the caller and, on the side, journaled and published.
func (e *Exchange) SubmitLimitOrder(ctx context.Context, o *LimitOrder) ([]orderbook.Trade, error) {
	if err := validateRef(o.Symbol, o.OrderID); err != nil {
		return nil, err
	}

	bk := e.getOrCreateBook(o.Symbol)
	bk.mu.Lock()
	trades, err := bk.ob.ProcessLimitOrder(o.OrderID, o.Side, o.Price, o.Qty)
	var snap *marketdata.DepthSnapshot
	if err == nil {
		snap = e.snapshot(bk.ob, o.Symbol)
	}
	bk.mu.Unlock()

	if err != nil {
		return nil, err
	}

	e.afterMatch(ctx, o.Symbol, trades, snap)
	return trades, nil
}

// SubmitMarketOrder runs a market order through the symbol's book.
func (e *Exchange) SubmitMarketOrder(ctx context.Context, o *MarketOrder) ([]orderbook.Trade, error) {
	if err := validateRef(o.Symbol, o.OrderID); err != nil {
		return nil, err
	}

	bk := e.getOrCreateBook(o.Symbol)
	bk.mu.Lock()
	trades, err := bk.ob.ProcessMarketOrder(o.OrderID, o.Side, o.Qty)
	var snap *marketdata.DepthSnapshot
	if err == nil {
		snap = e.snapshot(bk.ob, o.Symbol)
	}
	bk.mu.Unlock()

	if err != nil {
		return nil, err
	}

	e.afterMatch(ctx, o.Symbol, trades, snap)
	return trades, nil
}

// Cancel removes a resting order from the symbol's book.
func (e *Exchange) Cancel(ctx context.Context, symbol, orderID string) error {
	if err := validateRef(symbol, orderID); err != nil {
		return err
	}

	bk := e.getOrCreateBook(symbol)
	bk.mu.Lock()
	err := bk.ob.CancelOrder(orderID)
	var snap *marketdata.DepthSnapshot
	if err == nil {
		snap = e.snapshot(bk.ob, symbol)
	}
	bk.mu.Unlock()

	if err != nil {
		return err
	}

	e.afterMatch(ctx, symbol, nil, snap)
	return nil
}

// Depth returns up to n aggregated levels per side of symbol's book.
func (e *Exchange) Depth(symbol string, n int) (bids, asks []orderbook.Level) {
	bk := e.getOrCreateBook(symbol)
	bk.mu.Lock()
	defer bk.mu.Unlock()
	return bk.ob.Depth(orderbook.BUY, n), bk.ob.Depth(orderbook.SELL, n)
}

// MarketCost reports the fillable quantity and signed cost of a
// hypothetical market order, without touching the book.
func (e *Exchange) MarketCost(symbol string, side orderbook.Side, qty decimal.Decimal) (filled, cost decimal.Decimal, err error) {
	bk := e.getOrCreateBook(symbol)
	bk.mu.Lock()
	defer bk.mu.Unlock()
	return bk.ob.MarketCost(side, qty)
}

func (e *Exchange) getOrCreateBook(symbol string) *book {
	if v, ok := e.books.Load(symbol); ok {
		return v.(*book)
	}
	actual, _ := e.books.LoadOrStore(symbol, &book{ob: orderbook.New()})
	return actual.(*book)
}

// afterMatch journals, publishes and notifies outside the book lock. Journal
// and feed failures are logged, not propagated: the book already applied the
// operation.
func (e *Exchange) afterMatch(ctx context.Context, symbol string, trades []orderbook.Trade, snap *marketdata.DepthSnapshot) {
	logger, ctx := logging.GetLogger(ctx)

	if len(trades) > 0 {
		now := time.Now()

		if e.journal != nil {
			events := make([]*journal.TradeEvent, 0, len(trades))
			for _, tr := range trades {
				events = append(events, journal.NewTradeEvent(symbol, tr.MakerOrderID, tr.TakerOrderID, tr.Price, tr.Qty, now))
			}
			if err := e.journal.AppendTrades(ctx, events); err != nil {
				logger.Error(ctx, "journal trades failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}

		if e.feed != nil {
			msgs := make([]marketdata.TradeMessage, 0, len(trades))
			for _, tr := range trades {
				msgs = append(msgs, marketdata.TradeMessage{
					Symbol:       symbol,
					MakerOrderID: tr.MakerOrderID,
					TakerOrderID: tr.TakerOrderID,
					Price:        tr.Price.String(),
					Qty:          tr.Qty.String(),
					ExecutedAt:   now,
				})
			}
			if err := e.feed.PublishTrades(ctx, msgs); err != nil {
				logger.Error(ctx, "publish trades failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}

		e.cbMu.Lock()
		cbs := e.callbacks
		e.cbMu.Unlock()
		for _, cb := range cbs {
			cb(symbol, trades)
		}
	}

	if e.depth != nil && snap != nil {
		if err := e.depth.Store(ctx, snap); err != nil {
			logger.Error(ctx, "store depth snapshot failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
}

// snapshot must run under the book lock.
func (e *Exchange) snapshot(ob *orderbook.OrderBook, symbol string) *marketdata.DepthSnapshot {
	if e.depth == nil || e.cfg.DepthLevels <= 0 {
		return nil
	}

	convert := func(levels []orderbook.Level) []marketdata.DepthLevel {
		out := make([]marketdata.DepthLevel, 0, len(levels))
		for _, l := range levels {
			out = append(out, marketdata.DepthLevel{Price: l.Price.String(), Qty: l.Qty.String(), Count: l.Count})
		}
		return out
	}

	return &marketdata.DepthSnapshot{
		Symbol: symbol,
		Bids:   convert(ob.Depth(orderbook.BUY, e.cfg.DepthLevels)),
		Asks:   convert(ob.Depth(orderbook.SELL, e.cfg.DepthLevels)),
		At:     time.Now(),
	}
}

func validateRef(symbol, orderID string) error {
	if symbol == "" {
		return errMissingSymbol
	}
	if orderID == "" {
		return errMissingOrderID
	}
	return nil
}
