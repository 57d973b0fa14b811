package exchange

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joripage/limitbook/pkg/journal"
	"github.com/joripage/limitbook/pkg/marketdata"
	"github.com/joripage/limitbook/pkg/orderbook"
)

type capturedDepth struct {
	snaps []*marketdata.DepthSnapshot
}

func (c *capturedDepth) Store(_ context.Context, snap *marketdata.DepthSnapshot) error {
	c.snaps = append(c.snaps, snap)
	return nil
}

func TestSubmitLimitOrderJournalsTrades(t *testing.T) {
	ctx := context.Background()
	jnl := journal.NewMemoryJournal()
	ex := New(nil, jnl)

	var cbTrades []orderbook.Trade
	ex.RegisterTradeCallback(func(symbol string, trades []orderbook.Trade) {
		assert.Equal(t, "ABC", symbol)
		cbTrades = append(cbTrades, trades...)
	})

	trades, err := ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "ABC", OrderID: "S1", Side: orderbook.SELL,
		Price: decimal.NewFromInt(100), Qty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Len(t, trades, 0)

	trades, err = ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "ABC", OrderID: "B1", Side: orderbook.BUY,
		Price: decimal.NewFromInt(101), Qty: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "S1", trades[0].MakerOrderID)
	assert.Equal(t, "B1", trades[0].TakerOrderID)
	assert.True(t, trades[0].Price.Equal(decimal.NewFromInt(100)))

	events := jnl.Trades("ABC")
	require.Len(t, events, 1)
	assert.Equal(t, "S1", events[0].MakerOrderID)
	assert.True(t, events[0].Qty.Equal(decimal.NewFromInt(4)))

	require.Len(t, cbTrades, 1)
	assert.Equal(t, "S1", cbTrades[0].MakerOrderID)
}

func TestBooksAreIsolatedPerSymbol(t *testing.T) {
	ctx := context.Background()
	ex := New(nil, journal.NewMemoryJournal())

	_, err := ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "AAA", OrderID: "S1", Side: orderbook.SELL,
		Price: decimal.NewFromInt(10), Qty: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	// same liquidity does not exist on another symbol's book
	trades, err := ex.SubmitMarketOrder(ctx, &MarketOrder{
		Symbol: "BBB", OrderID: "M1", Side: orderbook.BUY, Qty: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Len(t, trades, 0)

	// the same order id may rest on different symbols
	_, err = ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "BBB", OrderID: "S1", Side: orderbook.SELL,
		Price: decimal.NewFromInt(10), Qty: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
}

func TestCancelPropagatesBookErrors(t *testing.T) {
	ctx := context.Background()
	ex := New(nil, journal.NewMemoryJournal())

	err := ex.Cancel(ctx, "ABC", "missing")
	assert.ErrorIs(t, err, orderbook.ErrOrderNotFound)

	_, err = ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "ABC", OrderID: "B1", Side: orderbook.BUY,
		Price: decimal.NewFromInt(5), Qty: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	require.NoError(t, ex.Cancel(ctx, "ABC", "B1"))
	assert.ErrorIs(t, ex.Cancel(ctx, "ABC", "B1"), orderbook.ErrOrderNotFound)
}

func TestValidationErrors(t *testing.T) {
	ctx := context.Background()
	ex := New(nil, journal.NewMemoryJournal())

	_, err := ex.SubmitLimitOrder(ctx, &LimitOrder{
		OrderID: "B1", Side: orderbook.BUY,
		Price: decimal.NewFromInt(5), Qty: decimal.NewFromInt(1),
	})
	assert.Error(t, err)

	_, err = ex.SubmitMarketOrder(ctx, &MarketOrder{
		Symbol: "ABC", Side: orderbook.BUY, Qty: decimal.NewFromInt(1),
	})
	assert.Error(t, err)

	_, err = ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "ABC", OrderID: "B1", Side: orderbook.BUY,
		Price: decimal.NewFromInt(5), Qty: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, orderbook.ErrNonPositiveQuantity)
}

func TestDepthSnapshotsPushedToStore(t *testing.T) {
	ctx := context.Background()
	ex := New(&Config{DepthLevels: 5}, journal.NewMemoryJournal())
	store := &capturedDepth{}
	ex.SetDepthStore(store)

	_, err := ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "ABC", OrderID: "B1", Side: orderbook.BUY,
		Price: decimal.NewFromInt(9), Qty: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	require.Len(t, store.snaps, 1)
	snap := store.snaps[0]
	assert.Equal(t, "ABC", snap.Symbol)
	require.Len(t, snap.Bids, 1)
	assert.Equal(t, "9", snap.Bids[0].Price)
	assert.Equal(t, "2", snap.Bids[0].Qty)
	assert.Empty(t, snap.Asks)
}

func TestMarketCostReadOnly(t *testing.T) {
	ctx := context.Background()
	ex := New(nil, journal.NewMemoryJournal())

	_, err := ex.SubmitLimitOrder(ctx, &LimitOrder{
		Symbol: "ABC", OrderID: "B1", Side: orderbook.BUY,
		Price: decimal.NewFromInt(5), Qty: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	filled, cost, err := ex.MarketCost("ABC", orderbook.SELL, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, filled.Equal(decimal.NewFromInt(3)))
	assert.True(t, cost.Equal(decimal.NewFromInt(-15)))

	bids, _ := ex.Depth("ABC", 1)
	require.Len(t, bids, 1)
	assert.True(t, bids[0].Qty.Equal(decimal.NewFromInt(5)))
}
