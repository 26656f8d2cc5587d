package models

import "time"

type CounterpartyModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	DisplayName     string `gorm:"not null"`
	Tier            string `gorm:"index"`
	ReputationScore float64
	TotalOrders     int64
	CompletedOrders int64
	CanceledOrders  int64
	DisputedOrders  int64
	AffiliateID     string `gorm:"index"`
	ReferrerID      string `gorm:"index"`
	Suspended       bool   `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CounterpartyModel) TableName() string {
	return "counterparties"
}
