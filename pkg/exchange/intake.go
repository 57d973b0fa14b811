package exchange

import (
	"context"
	"encoding/json"
	"time"

	"github.com/joripage/go_util/pkg/shardqueue"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joripage/limitbook/pkg/logging"
	"github.com/joripage/limitbook/pkg/orderbook"
)

// OrderRequest is the wire form consumed from the intake stream.
type OrderRequest struct {
	Type    string `json:"type"` // limit | market | cancel
	Symbol  string `json:"symbol"`
	OrderID string `json:"order_id"`
	Side    string `json:"side"` // BUY | SELL
	Price   string `json:"price,omitempty"`
	Qty     string `json:"qty,omitempty"`
}

// Intake pulls order requests off JetStream and feeds the exchange. Requests
// are sharded by symbol, so each book sees a single writer regardless of how
// many shards drain in parallel.
type Intake struct {
	exchange *Exchange
	shards   *shardqueue.Shardqueue
}

func NewIntake(ex *Exchange, numShards, queueSize int) *Intake {
	in := &Intake{exchange: ex}
	in.shards = shardqueue.NewShardQueue(numShards, queueSize)
	in.shards.Start(func(msg interface{}) error {
		if req, ok := msg.(*OrderRequest); ok {
			in.handle(context.Background(), req)
		}
		return nil
	})
	return in
}

// StartConsumer fetches from a durable pull subscription until ctx is done.
func (in *Intake) StartConsumer(ctx context.Context, js nats.JetStreamContext, subject, durable string) error {
	cons, err := js.PullSubscribe(subject, durable)
	if err != nil {
		return err
	}

	logger, ctx := logging.GetLogger(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := cons.Fetch(10, nats.MaxWait(time.Second))
		if err != nil {
			if err != nats.ErrTimeout {
				logger.Warn(ctx, "fetch failed", zap.Error(err))
			}
			continue
		}

		for _, msg := range msgs {
			req := &OrderRequest{}
			if err := json.Unmarshal(msg.Data, req); err != nil {
				logger.Warn(ctx, "drop undecodable request", zap.Error(err))
				_ = msg.Ack()
				continue
			}
			in.shards.Shard(req.Symbol, req)
			_ = msg.Ack()
		}
	}
}

func (in *Intake) handle(ctx context.Context, req *OrderRequest) {
	logger, ctx := logging.GetLogger(ctx)

	var err error
	switch req.Type {
	case "limit":
		var price, qty decimal.Decimal
		if price, qty, err = parsePriceQty(req.Price, req.Qty); err == nil {
			_, err = in.exchange.SubmitLimitOrder(ctx, &LimitOrder{
				Symbol:  req.Symbol,
				OrderID: req.OrderID,
				Side:    orderbook.Side(req.Side),
				Price:   price,
				Qty:     qty,
			})
		}
	case "market":
		var qty decimal.Decimal
		if qty, err = decimal.NewFromString(req.Qty); err == nil {
			_, err = in.exchange.SubmitMarketOrder(ctx, &MarketOrder{
				Symbol:  req.Symbol,
				OrderID: req.OrderID,
				Side:    orderbook.Side(req.Side),
				Qty:     qty,
			})
		}
	case "cancel":
		err = in.exchange.Cancel(ctx, req.Symbol, req.OrderID)
	default:
		logger.Warn(ctx, "drop request with unknown type", zap.String("type", req.Type))
		return
	}

	if err != nil {
		logger.Warn(ctx, "request rejected",
			zap.String("type", req.Type),
			zap.String("symbol", req.Symbol),
			zap.String("order_id", req.OrderID),
			zap.Error(err))
	}
}

func parsePriceQty(price, qty string) (decimal.Decimal, decimal.Decimal, error) {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	q, err := decimal.NewFromString(qty)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return p, q, nil
}
