package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// TradeMessage is the wire form of one execution on the trade feed.
type TradeMessage struct {
	Symbol       string    `json:"symbol"`
	MakerOrderID string    `json:"maker_order_id"`
	TakerOrderID string    `json:"taker_order_id"`
	Price        string    `json:"price"`
	Qty          string    `json:"qty"`
	ExecutedAt   time.Time `json:"executed_at"`
}

type FeedConfig struct {
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic"`
	BatchSize    int           `yaml:"batch_size"`
	BatchBytes   int64         `yaml:"batch_bytes"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
}

// Feed publishes executed trades to a kafka topic. Messages are keyed by
// symbol so one instrument's trades stay ordered within a partition.
type Feed struct {
	w     *kafka.Writer
	topic string
}

func NewFeed(cfg FeedConfig) *Feed {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.BatchBytes == 0 {
		cfg.BatchBytes = 1 << 20
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}

	wr := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchBytes:             cfg.BatchBytes,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireNone,
		Async:                  true,
	}
	return &Feed{w: wr, topic: cfg.Topic}
}

func (f *Feed) PublishTrades(ctx context.Context, msgs []TradeMessage) error {
	if f == nil || f.w == nil {
		return errors.New("feed not initialized")
	}
	if len(msgs) == 0 {
		return nil
	}

	kms := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		kms = append(kms, kafka.Message{
			Topic: f.topic,
			Key:   []byte(m.Symbol),
			Value: b,
			Time:  m.ExecutedAt,
		})
	}
	return f.w.WriteMessages(ctx, kms...)
}

func (f *Feed) Close() error {
	if f == nil || f.w == nil {
		return nil
	}
	return f.w.Close()
}
