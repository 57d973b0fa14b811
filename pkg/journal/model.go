package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeEvent is one executed trade as journaled outside the book. The book
// itself persists nothing; this is the snapshot boundary.
type TradeEvent struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	EventID      string          `gorm:"uniqueIndex;size:64"`
	Symbol       string          `gorm:"index;size:32"`
	MakerOrderID string          `gorm:"size:64"`
	TakerOrderID string          `gorm:"size:64"`
	Price        decimal.Decimal `gorm:"type:numeric"`
	Qty          decimal.Decimal `gorm:"type:numeric"`
	ExecutedAt   time.Time       `gorm:"index"`
}

func (TradeEvent) TableName() string {
	return "trade_events"
}

// NewTradeEvent builds a journal row for one execution.
func NewTradeEvent(symbol, makerID, takerID string, price, qty decimal.Decimal, ts time.Time) *TradeEvent {
	return &TradeEvent{
		EventID:      uuid.New().String(),
		Symbol:       symbol,
		MakerOrderID: makerID,
		TakerOrderID: takerID,
		Price:        price,
		Qty:          qty,
		ExecutedAt:   ts,
	}
}
