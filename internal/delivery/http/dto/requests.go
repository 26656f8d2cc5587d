package dto

// Request bodies for the public surface. Monetary values are integer minimal
// units end to end; callers scale before talking to the engine.

type RegisterCounterpartyRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	AffiliateID string `json:"affiliate_id"`
	ReferrerID  string `json:"referrer_id"`
}

type CreateAdRequest struct {
	Side           string   `json:"side" binding:"required"`
	AssetID        string   `json:"asset_id" binding:"required"`
	Price          float64  `json:"price" binding:"required"`
	QuoteCurrency  string   `json:"quote_currency" binding:"required"`
	MinOrderValue  int64    `json:"min_order_value"`
	MaxOrderValue  int64    `json:"max_order_value"`
	PaymentMethods []string `json:"payment_methods" binding:"required"`
	TotalAmount    int64    `json:"total_amount" binding:"required"`
}

type CreateOrderRequest struct {
	AdID          string `json:"ad_id" binding:"required"`
	Amount        int64  `json:"amount" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type OpenDisputeRequest struct {
	Reason      string `json:"reason" binding:"required"`
	EvidenceURL string `json:"evidence_url"`
}

type ResolveDisputeRequest struct {
	Outcome    string  `json:"outcome" binding:"required"`
	BuyerRatio float64 `json:"buyer_ratio"`
	Rationale  string  `json:"rationale" binding:"required"`
}
