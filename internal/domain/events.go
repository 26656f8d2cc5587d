package domain

// Events are fire-and-forget: a publish failure is logged and never blocks
// settlement.

type OrderEvent struct {
	OrderID    string `json:"order_id"`
	BuyerID    string `json:"buyer_id"`
	SellerID   string `json:"seller_id"`
	AssetID    string `json:"asset_id"`
	Amount     int64  `json:"amount"`
	TotalValue int64  `json:"total_value"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

type DisputeEvent struct {
	DisputeID     string `json:"dispute_id"`
	OrderID       string `json:"order_id"`
	ComplainantID string `json:"complainant_id"`
	RespondentID  string `json:"respondent_id"`
	Status        string `json:"status"`
	Outcome       string `json:"outcome,omitempty"`
}

type EventPublisher interface {
	PublishOrderEvent(event OrderEvent) error
	PublishDisputeEvent(event DisputeEvent) error
}
