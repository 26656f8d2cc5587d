package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen          DisputeStatus = "OPEN"
	DisputeInvestigating DisputeStatus = "INVESTIGATING"
	DisputeResolved      DisputeStatus = "RESOLVED"
	DisputeClosed        DisputeStatus = "CLOSED"
)

type DisputeOutcome string

const (
	OutcomeBuyerWins  DisputeOutcome = "BUYER_WINS"
	OutcomeSellerWins DisputeOutcome = "SELLER_WINS"
	OutcomePartial    DisputeOutcome = "PARTIAL"
)

// Dispute freezes the default settlement path of its order. The resolution
// block (outcome, moderator, rationale, ResolvedAt) is written exactly once;
// a mistaken resolution requires a fresh dispute, never an edit.
type Dispute struct {
	ID            string
	OrderID       string
	ComplainantID string
	RespondentID  string
	Reason        string
	EvidenceURL   string
	Status        DisputeStatus
	Outcome       DisputeOutcome
	BuyerRatio    float64
	ModeratorID   string
	Rationale     string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisputeResolution is the immutable outcome block recorded at resolve time.
type DisputeResolution struct {
	Outcome     DisputeOutcome
	BuyerRatio  float64
	ModeratorID string
	Rationale   string
	ResolvedAt  time.Time
}

type DisputeRepository interface {
	// Open creates the dispute and flips its order to DISPUTED in one
	// transaction, guarded on the order's expected current status.
	Open(dispute *Dispute, expectedOrderStatus OrderStatus) error
	GetByID(disputeID string) (*Dispute, error)
	GetOpenByOrderID(orderID string) (*Dispute, error)
	List(page, limit int64, status string) ([]*Dispute, int64, error)
	// UpdateStatus flips dispute status with an expected-status guard.
	UpdateStatus(disputeID string, from, to DisputeStatus) error
	// Resolve writes the resolution block once (guarded on resolved_at being
	// unset), flips the order DISPUTED -> ruling, and records the settlement
	// intent plus commission records, all in one transaction. Nothing commits
	// unless every step does, so a resolution is never observable without the
	// intent the retry worker needs to re-drive it.
	Resolve(disputeID string, res DisputeResolution, ruling OrderStatus, reason string, intent *SettlementIntent, records []*CommissionRecord) error
}
