package models

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type EscrowModel struct {
	ID            string              `gorm:"primaryKey"`
	OrderID       string              `gorm:"type:uuid;uniqueIndex"`
	SellerID      string              `gorm:"type:uuid;index"`
	BuyerID       string              `gorm:"type:uuid"`
	AssetID       string              `gorm:"not null"`
	Amount        int64               `gorm:"not null"`
	LockHandle    string              `gorm:"not null"`
	Status        domain.EscrowStatus `gorm:"index"`
	ReleasedBy    string
	ReleaseReason string
	BuyerShare    int64
	SellerShare   int64
	ReleasedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (EscrowModel) TableName() string {
	return "escrows"
}
