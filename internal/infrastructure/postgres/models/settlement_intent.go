package models

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type SettlementIntentModel struct {
	ID          string                   `gorm:"primaryKey"`
	OrderID     string                   `gorm:"type:uuid;uniqueIndex"`
	EscrowID    string                   `gorm:"not null"`
	DisputeID   string
	Outcome     domain.SettlementOutcome `gorm:"not null"`
	BuyerShare  int64
	SellerShare int64
	Reason      string
	DecidedBy   string
	Attempts    int64
	LastError   string
	AppliedAt   *time.Time `gorm:"index"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

func (SettlementIntentModel) TableName() string {
	return "settlement_intents"
}
