package models

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type DisputeModel struct {
	ID            string               `gorm:"primaryKey"`
	OrderID       string               `gorm:"type:uuid;index:idx_disputes_order_status"`
	ComplainantID string               `gorm:"type:uuid"`
	RespondentID  string               `gorm:"type:uuid"`
	Reason        string               `gorm:"not null"`
	EvidenceURL   string
	Status        domain.DisputeStatus `gorm:"index:idx_disputes_order_status"`
	Outcome       domain.DisputeOutcome
	BuyerRatio    float64
	ModeratorID   string
	Rationale     string
	ResolvedAt    *time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}
