package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/metrics"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

type DisputeUsecase interface {
	OpenDispute(ctx context.Context, input *dto.OpenDisputeInput) (*domain.Dispute, error)
	StartInvestigation(ctx context.Context, disputeID, moderatorID string) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, input *dto.ResolveDisputeInput) (*domain.Dispute, error)
	GetDisputeByID(disputeID string) (*domain.Dispute, error)
	ListDisputes(page, limit int64, status string) ([]*domain.Dispute, int64, error)
}

type DefaultDisputeUsecase struct {
	disputeRepo domain.DisputeRepository
	orderRepo   domain.OrderRepository
	cpRepo      domain.CounterpartyRepository
	configRepo  domain.PlatformConfigRepository
	escrow      *EscrowStore
	settlement  *SettlementUsecase
	publisher   domain.EventPublisher
	metrics     *metrics.EngineMetrics
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	orderRepo domain.OrderRepository,
	cpRepo domain.CounterpartyRepository,
	configRepo domain.PlatformConfigRepository,
	escrow *EscrowStore,
	settlement *SettlementUsecase,
	publisher domain.EventPublisher,
	m *metrics.EngineMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo: disputeRepo,
		orderRepo:   orderRepo,
		cpRepo:      cpRepo,
		configRepo:  configRepo,
		escrow:      escrow,
		settlement:  settlement,
		publisher:   publisher,
		metrics:     m,
	}
}

// OpenDispute freezes an order's default settlement path. The dispute row
// and the order's flip to DISPUTED commit in one transaction guarded on the
// order's current status, so a racing auto-release loses cleanly.
func (uc *DefaultDisputeUsecase) OpenDispute(ctx context.Context, input *dto.OpenDisputeInput) (*domain.Dispute, error) {
	if input.Reason == "" {
		return nil, domain.NewValidationError("dispute reason is required")
	}

	order, err := uc.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsParty(input.ActorID) {
		return nil, domain.NewUnauthorized("actor is not a party to the order")
	}
	if order.Status != domain.StatusPending && order.Status != domain.StatusPaid {
		return nil, domain.NewStateConflict("order", "PENDING or PAID", string(order.Status))
	}
	if !order.ConfirmationDeadline.IsZero() && time.Now().After(order.ConfirmationDeadline) {
		return nil, domain.NewValidationError("confirmation deadline has passed; dispute window is closed")
	}
	if existing, err := uc.disputeRepo.GetOpenByOrderID(order.ID); err == nil && existing != nil {
		return nil, domain.NewValidationError("order already has an open dispute")
	}

	newID, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	dispute := &domain.Dispute{
		ID:            newID(),
		OrderID:       order.ID,
		ComplainantID: input.ActorID,
		RespondentID:  order.OtherParty(input.ActorID),
		Reason:        input.Reason,
		EvidenceURL:   input.EvidenceURL,
		Status:        domain.DisputeOpen,
	}
	if err := uc.disputeRepo.Open(dispute, order.Status); err != nil {
		if domain.IsStateConflict(err) {
			uc.metrics.StateConflictsTotal.WithLabelValues("open_dispute").Inc()
		}
		return nil, err
	}

	uc.applyCounters(order.BuyerID, domain.CounterpartyCounters{DisputedOrders: 1})
	uc.applyCounters(order.SellerID, domain.CounterpartyCounters{DisputedOrders: 1})
	uc.metrics.DisputesOpenedTotal.WithLabelValues(string(order.Status)).Inc()
	uc.publishDisputeEvent(dispute)
	return dispute, nil
}

func (uc *DefaultDisputeUsecase) StartInvestigation(ctx context.Context, disputeID, moderatorID string) (*domain.Dispute, error) {
	if moderatorID == "" {
		return nil, domain.NewUnauthorized("moderator identity is required")
	}
	if err := uc.disputeRepo.UpdateStatus(disputeID, domain.DisputeOpen, domain.DisputeInvestigating); err != nil {
		return nil, err
	}
	return uc.disputeRepo.GetByID(disputeID)
}

// ResolveDispute records the immutable arbitration outcome and finalizes the
// order accordingly: buyer_wins releases, seller_wins refunds, partial splits
// by the given ratio. A mistaken resolution requires a fresh dispute.
func (uc *DefaultDisputeUsecase) ResolveDispute(ctx context.Context, input *dto.ResolveDisputeInput) (*domain.Dispute, error) {
	if input.ModeratorID == "" {
		return nil, domain.NewUnauthorized("moderator identity is required")
	}
	if input.Rationale == "" {
		return nil, domain.NewValidationError("resolution rationale is required")
	}

	dispute, err := uc.disputeRepo.GetByID(input.DisputeID)
	if err != nil {
		return nil, err
	}
	if dispute.ResolvedAt != nil {
		return nil, domain.NewStateConflict("dispute", "OPEN or INVESTIGATING", string(dispute.Status))
	}

	order, err := uc.orderRepo.GetByID(dispute.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDisputed {
		return nil, domain.NewStateConflict("order", string(domain.StatusDisputed), string(order.Status))
	}
	escrow, err := uc.escrow.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}

	var (
		outcome     domain.SettlementOutcome
		buyerShare  int64
		sellerShare int64
		target      domain.OrderStatus
		records     []*domain.CommissionRecord
	)
	switch input.Outcome {
	case domain.OutcomeBuyerWins:
		outcome, target = domain.SettleRelease, domain.StatusCompleted
		buyerShare, sellerShare = escrow.Amount, 0
		// the trade happened: commission applies as on a normal completion
		seller, err := uc.cpRepo.GetByID(order.SellerID)
		if err != nil {
			return nil, err
		}
		rule, err := uc.configRepo.GetCommissionRule(seller.Tier, order.AssetID)
		if err != nil {
			return nil, err
		}
		records, err = PartitionCommission(order.CommissionAmount, rule, seller)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			rec.OrderID = order.ID
		}
	case domain.OutcomeSellerWins:
		outcome, target = domain.SettleRefund, domain.StatusCanceled
		buyerShare, sellerShare = 0, escrow.Amount
	case domain.OutcomePartial:
		if input.BuyerRatio <= 0 || input.BuyerRatio >= 1 {
			return nil, domain.NewValidationError("partial buyer ratio must be in (0, 1)")
		}
		outcome, target = domain.SettlePartial, domain.StatusCompleted
		buyerShare, sellerShare = SplitByRatio(escrow.Amount, input.BuyerRatio)
	default:
		return nil, domain.NewValidationError("unknown dispute outcome %q", input.Outcome)
	}

	intent, err := newIntent(order, escrow, outcome, buyerShare, sellerShare, input.ModeratorID, domain.ReasonDisputeOutcome)
	if err != nil {
		return nil, err
	}
	intent.DisputeID = dispute.ID

	// verdict, order flip and intent commit in one transaction so a verdict
	// can never exist without the intent the retry worker re-drives
	resolvedAt := time.Now()
	if err := uc.disputeRepo.Resolve(dispute.ID, domain.DisputeResolution{
		Outcome:     input.Outcome,
		BuyerRatio:  input.BuyerRatio,
		ModeratorID: input.ModeratorID,
		Rationale:   input.Rationale,
		ResolvedAt:  resolvedAt,
	}, target, domain.ReasonDisputeOutcome, intent, records); err != nil {
		if domain.IsStateConflict(err) {
			uc.metrics.StateConflictsTotal.WithLabelValues("resolve_dispute").Inc()
		}
		return nil, err
	}

	if target == domain.StatusCompleted {
		uc.applyCounters(order.BuyerID, domain.CounterpartyCounters{TotalOrders: 1, CompletedOrders: 1})
		uc.applyCounters(order.SellerID, domain.CounterpartyCounters{TotalOrders: 1, CompletedOrders: 1, ReputationDelta: -1})
		uc.metrics.OrdersCompletedTotal.WithLabelValues(domain.ReasonDisputeOutcome).Inc()
	} else {
		uc.applyCounters(order.BuyerID, domain.CounterpartyCounters{TotalOrders: 1, CanceledOrders: 1, ReputationDelta: -1})
		uc.applyCounters(order.SellerID, domain.CounterpartyCounters{TotalOrders: 1, CanceledOrders: 1})
		uc.metrics.OrdersCanceledTotal.WithLabelValues(domain.ReasonDisputeOutcome).Inc()
	}
	uc.metrics.DisputesResolvedTotal.WithLabelValues(string(input.Outcome)).Inc()

	if err := uc.settlement.Apply(ctx, intent); err != nil {
		slog.Warn("dispute settlement deferred to retry worker",
			"dispute_id", dispute.ID, "intent_id", intent.ID, "error", err.Error())
	}

	resolved, err := uc.disputeRepo.GetByID(dispute.ID)
	if err != nil {
		return nil, err
	}
	uc.publishDisputeEvent(resolved)
	return resolved, nil
}

func (uc *DefaultDisputeUsecase) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	return uc.disputeRepo.GetByID(disputeID)
}

func (uc *DefaultDisputeUsecase) ListDisputes(page, limit int64, status string) ([]*domain.Dispute, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return uc.disputeRepo.List(page, limit, status)
}

func (uc *DefaultDisputeUsecase) applyCounters(cpID string, deltas domain.CounterpartyCounters) {
	if err := uc.cpRepo.ApplyCounters(cpID, deltas); err != nil {
		slog.Error("failed to apply counterparty counters", "counterparty_id", cpID, "error", err.Error())
	}
}

func (uc *DefaultDisputeUsecase) publishDisputeEvent(dispute *domain.Dispute) {
	event := domain.DisputeEvent{
		DisputeID:     dispute.ID,
		OrderID:       dispute.OrderID,
		ComplainantID: dispute.ComplainantID,
		RespondentID:  dispute.RespondentID,
		Status:        string(dispute.Status),
		Outcome:       string(dispute.Outcome),
	}
	go func() {
		if err := uc.publisher.PublishDisputeEvent(event); err != nil {
			slog.Error("failed to publish dispute event", "dispute_id", event.DisputeID, "error", err.Error())
		}
	}()
}
