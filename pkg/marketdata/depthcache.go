package marketdata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DepthLevel is one aggregated price level of a snapshot, decimals rendered
// as strings to stay exact on the wire.
type DepthLevel struct {
	Price string `json:"price"`
	Qty   string `json:"qty"`
	Count int    `json:"count"`
}

// DepthSnapshot is the top of one symbol's book at a point in time.
type DepthSnapshot struct {
	Symbol string       `json:"symbol"`
	Bids   []DepthLevel `json:"bids"`
	Asks   []DepthLevel `json:"asks"`
	At     time.Time    `json:"at"`
}

// DepthCache keeps the latest snapshot per symbol in redis so read traffic
// never touches the matching path.
type DepthCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDepthCache(client *redis.Client, ttl time.Duration) *DepthCache {
	return &DepthCache{client: client, ttl: ttl}
}

func depthKey(symbol string) string {
	return "depth:" + symbol
}

func (c *DepthCache) Store(ctx context.Context, snap *DepthSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, depthKey(snap.Symbol), b, c.ttl).Err()
}

// Load returns the cached snapshot, or nil when none is stored.
func (c *DepthCache) Load(ctx context.Context, symbol string) (*DepthSnapshot, error) {
	b, err := c.client.Get(ctx, depthKey(symbol)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap DepthSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
