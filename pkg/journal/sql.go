package journal

import (
	"context"

	"gorm.io/gorm"
)

// SQLJournal persists trade events through gorm.
type SQLJournal struct {
	db *gorm.DB
}

func NewSQLJournal(db *gorm.DB) *SQLJournal {
	return &SQLJournal{db: db}
}

func (j *SQLJournal) AppendTrades(ctx context.Context, events []*TradeEvent) error {
	if len(events) == 0 {
		return nil
	}
	return j.db.WithContext(ctx).Create(&events).Error
}
