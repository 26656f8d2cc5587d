package domain

import "time"

type SettlementOutcome string

const (
	SettleRelease SettlementOutcome = "RELEASE"
	SettleRefund  SettlementOutcome = "REFUND"
	SettlePartial SettlementOutcome = "PARTIAL"
)

// SettlementIntent separates deciding an outcome from applying it. The
// decision step (confirmation, cancellation, dispute resolution, scheduler)
// writes the intent in the same transaction as the order's terminal status;
// the apply step drives the escrow and ledger and can be retried until it
// sticks. BuyerShare+SellerShare always equals the escrow amount.
type SettlementIntent struct {
	ID          string
	OrderID     string
	EscrowID    string
	DisputeID   string
	Outcome     SettlementOutcome
	BuyerShare  int64
	SellerShare int64
	Reason      string
	DecidedBy   string
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	AppliedAt   *time.Time
}

func (i *SettlementIntent) Applied() bool { return i.AppliedAt != nil }

type SettlementRepository interface {
	GetByID(intentID string) (*SettlementIntent, error)
	GetByOrderID(orderID string) (*SettlementIntent, error)
	// FindPending returns unapplied intents created before cutoff, oldest
	// first, for the retry worker.
	FindPending(cutoff time.Time, limit int) ([]*SettlementIntent, error)
	// MarkApplied stamps applied_at once; a second call affects zero rows and
	// reports a StateConflict so duplicate workers back off.
	MarkApplied(intentID string, appliedAt time.Time) error
	RecordAttempt(intentID string, lastError string) error
}
