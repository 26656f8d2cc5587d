package dto

import (
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
)

type CounterpartyResponse struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"display_name"`
	Tier            string  `json:"tier"`
	ReputationScore float64 `json:"reputation_score"`
	TotalOrders     int64   `json:"total_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	CanceledOrders  int64   `json:"canceled_orders"`
	DisputedOrders  int64   `json:"disputed_orders"`
	Suspended       bool    `json:"suspended"`
}

type AdResponse struct {
	ID              string   `json:"id"`
	OwnerID         string   `json:"owner_id"`
	Side            string   `json:"side"`
	AssetID         string   `json:"asset_id"`
	Price           float64  `json:"price"`
	QuoteCurrency   string   `json:"quote_currency"`
	MinOrderValue   int64    `json:"min_order_value"`
	MaxOrderValue   int64    `json:"max_order_value"`
	PaymentMethods  []string `json:"payment_methods"`
	TotalAmount     int64    `json:"total_amount"`
	AvailableAmount int64    `json:"available_amount"`
	Status          string   `json:"status"`
}

// OrderResponse is the order snapshot. DeadlineExceeded marks snapshots
// fetched past the deadline relevant to the order's current status; it is
// advisory and implies nothing about what a later transition will decide.
type OrderResponse struct {
	ID                   string     `json:"id"`
	AdID                 string     `json:"ad_id"`
	BuyerID              string     `json:"buyer_id"`
	SellerID             string     `json:"seller_id"`
	AssetID              string     `json:"asset_id"`
	Amount               int64      `json:"amount"`
	Price                float64    `json:"price"`
	QuoteCurrency        string     `json:"quote_currency"`
	TotalValue           int64      `json:"total_value"`
	CommissionRate       float64    `json:"commission_rate"`
	CommissionAmount     int64      `json:"commission_amount"`
	NetAmount            int64      `json:"net_amount"`
	PaymentMethod        string     `json:"payment_method"`
	Status               string     `json:"status"`
	PaymentDeadline      time.Time  `json:"payment_deadline"`
	ConfirmationDeadline time.Time  `json:"confirmation_deadline"`
	AutoReleaseAt        time.Time  `json:"auto_release_at"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CancelReason         string     `json:"cancel_reason,omitempty"`
	DeadlineExceeded     bool       `json:"deadline_exceeded"`
	AdvisoryCode         string     `json:"advisory_code,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type DisputeResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	ComplainantID string     `json:"complainant_id"`
	RespondentID  string     `json:"respondent_id"`
	Reason        string     `json:"reason"`
	EvidenceURL   string     `json:"evidence_url,omitempty"`
	Status        string     `json:"status"`
	Outcome       string     `json:"outcome,omitempty"`
	BuyerRatio    float64    `json:"buyer_ratio,omitempty"`
	ModeratorID   string     `json:"moderator_id,omitempty"`
	Rationale     string     `json:"rationale,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type SettlementIntentResponse struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	EscrowID    string     `json:"escrow_id"`
	DisputeID   string     `json:"dispute_id,omitempty"`
	Outcome     string     `json:"outcome"`
	BuyerShare  int64      `json:"buyer_share"`
	SellerShare int64      `json:"seller_share"`
	Reason      string     `json:"reason"`
	DecidedBy   string     `json:"decided_by"`
	Attempts    int        `json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

func ToCounterpartyResponse(cp *domain.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		ID:              cp.ID,
		DisplayName:     cp.DisplayName,
		Tier:            cp.Tier,
		ReputationScore: cp.ReputationScore,
		TotalOrders:     cp.TotalOrders,
		CompletedOrders: cp.CompletedOrders,
		CanceledOrders:  cp.CanceledOrders,
		DisputedOrders:  cp.DisputedOrders,
		Suspended:       cp.Suspended,
	}
}

func ToAdResponse(ad *domain.Advertisement) AdResponse {
	return AdResponse{
		ID:              ad.ID,
		OwnerID:         ad.OwnerID,
		Side:            string(ad.Side),
		AssetID:         ad.AssetID,
		Price:           ad.Price,
		QuoteCurrency:   ad.QuoteCurrency,
		MinOrderValue:   ad.MinOrderValue,
		MaxOrderValue:   ad.MaxOrderValue,
		PaymentMethods:  ad.PaymentMethods,
		TotalAmount:     ad.TotalAmount,
		AvailableAmount: ad.AvailableAmount,
		Status:          string(ad.Status),
	}
}

func ToOrderResponse(order *domain.Order, now time.Time) OrderResponse {
	exceeded := deadlineExceeded(order, now)
	advisory := ""
	if exceeded {
		advisory = string(domain.CodeDeadlineAdvisory)
	}
	return OrderResponse{
		ID:                   order.ID,
		AdID:                 order.AdID,
		BuyerID:              order.BuyerID,
		SellerID:             order.SellerID,
		AssetID:              order.AssetID,
		Amount:               order.Amount,
		Price:                order.Price,
		QuoteCurrency:        order.QuoteCurrency,
		TotalValue:           order.TotalValue,
		CommissionRate:       order.CommissionRate,
		CommissionAmount:     order.CommissionAmount,
		NetAmount:            order.NetAmount,
		PaymentMethod:        order.PaymentMethod,
		Status:               string(order.Status),
		PaymentDeadline:      order.PaymentDeadline,
		ConfirmationDeadline: order.ConfirmationDeadline,
		AutoReleaseAt:        order.AutoReleaseAt,
		PaidAt:               order.PaidAt,
		CompletedAt:          order.CompletedAt,
		CancelReason:         order.CancelReason,
		DeadlineExceeded:     exceeded,
		AdvisoryCode:         advisory,
		CreatedAt:            order.CreatedAt,
	}
}

func deadlineExceeded(order *domain.Order, now time.Time) bool {
	switch order.Status {
	case domain.StatusPending:
		return now.After(order.PaymentDeadline)
	case domain.StatusPaid:
		return now.After(order.ConfirmationDeadline)
	default:
		return false
	}
}

func ToSettlementIntentResponse(intent *domain.SettlementIntent) SettlementIntentResponse {
	return SettlementIntentResponse{
		ID:          intent.ID,
		OrderID:     intent.OrderID,
		EscrowID:    intent.EscrowID,
		DisputeID:   intent.DisputeID,
		Outcome:     string(intent.Outcome),
		BuyerShare:  intent.BuyerShare,
		SellerShare: intent.SellerShare,
		Reason:      intent.Reason,
		DecidedBy:   intent.DecidedBy,
		Attempts:    intent.Attempts,
		LastError:   intent.LastError,
		AppliedAt:   intent.AppliedAt,
		CreatedAt:   intent.CreatedAt,
	}
}

func ToDisputeResponse(d *domain.Dispute) DisputeResponse {
	return DisputeResponse{
		ID:            d.ID,
		OrderID:       d.OrderID,
		ComplainantID: d.ComplainantID,
		RespondentID:  d.RespondentID,
		Reason:        d.Reason,
		EvidenceURL:   d.EvidenceURL,
		Status:        string(d.Status),
		Outcome:       string(d.Outcome),
		BuyerRatio:    d.BuyerRatio,
		ModeratorID:   d.ModeratorID,
		Rationale:     d.Rationale,
		ResolvedAt:    d.ResolvedAt,
		CreatedAt:     d.CreatedAt,
	}
}
