package dto

import "github.com/peerex/p2p-escrow-service/internal/domain"

type RegisterCounterpartyInput struct {
	DisplayName string
	AffiliateID string
	ReferrerID  string
}

type CreateAdInput struct {
	OwnerID        string
	Side           domain.AdSide
	AssetID        string
	Price          float64
	QuoteCurrency  string
	MinOrderValue  int64
	MaxOrderValue  int64
	PaymentMethods []string
	TotalAmount    int64
}

type CreateOrderInput struct {
	AdID          string
	TakerID       string
	Amount        int64
	PaymentMethod string
}

type OpenDisputeInput struct {
	OrderID     string
	ActorID     string
	Reason      string
	EvidenceURL string
}

type ResolveDisputeInput struct {
	DisputeID   string
	ModeratorID string
	Outcome     domain.DisputeOutcome
	BuyerRatio  float64
	Rationale   string
}
