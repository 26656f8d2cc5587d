package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/metrics"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

// SystemActor marks transitions driven by the engine itself rather than a
// counterparty: deadline cancellations and scheduler releases.
const SystemActor = "system"

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*domain.Order, error)
	GetOrderByID(orderID string) (*domain.Order, error)
	ListOrders(filters domain.OrderFilters, page, limit int64) ([]*domain.Order, int64, error)
	MarkPaid(ctx context.Context, orderID, actorID string) (*domain.Order, error)
	ConfirmReceipt(ctx context.Context, orderID, actorID string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID, actorID string) (*domain.Order, error)
	AutoRelease(ctx context.Context, orderID string) error
	CancelExpired(ctx context.Context) error
}

type DefaultOrderUsecase struct {
	orderRepo  domain.OrderRepository
	adRepo     domain.AdvertisementRepository
	cpRepo     domain.CounterpartyRepository
	assetRepo  domain.AssetRepository
	configRepo domain.PlatformConfigRepository
	ledger     domain.LedgerAdapter
	identity   domain.IdentityVerifier
	escrow     *EscrowStore
	settlement *SettlementUsecase
	publisher  domain.EventPublisher
	metrics    *metrics.EngineMetrics
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	adRepo domain.AdvertisementRepository,
	cpRepo domain.CounterpartyRepository,
	assetRepo domain.AssetRepository,
	configRepo domain.PlatformConfigRepository,
	ledger domain.LedgerAdapter,
	identity domain.IdentityVerifier,
	escrow *EscrowStore,
	settlement *SettlementUsecase,
	publisher domain.EventPublisher,
	m *metrics.EngineMetrics,
) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{
		orderRepo:  orderRepo,
		adRepo:     adRepo,
		cpRepo:     cpRepo,
		assetRepo:  assetRepo,
		configRepo: configRepo,
		ledger:     ledger,
		identity:   identity,
		escrow:     escrow,
		settlement: settlement,
		publisher:  publisher,
		metrics:    m,
	}
}

// CreateOrder opens an order against an advertisement and locks the seller's
// offered amount. The sequence is: reserve ad liquidity (conditional
// decrement), ledger lock, then order+escrow in one transaction. Any later
// step failing unwinds the earlier ones, so no order is ever persisted in a
// non-terminal state without custody behind it.
func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*domain.Order, error) {
	start := time.Now()
	defer func() {
		uc.metrics.OrderProcessingDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	}()

	if input.Amount <= 0 {
		return nil, domain.NewValidationError("order amount must be positive")
	}

	ad, err := uc.adRepo.GetByID(input.AdID)
	if err != nil {
		return nil, err
	}
	if ad.Status != domain.AdActive {
		return nil, domain.NewValidationError("advertisement %s is %s", ad.ID, ad.Status)
	}
	if !ad.AcceptsPaymentMethod(input.PaymentMethod) {
		return nil, domain.NewValidationError("payment method %q not accepted by advertisement", input.PaymentMethod)
	}
	if input.TakerID == ad.OwnerID {
		return nil, domain.NewValidationError("cannot take own advertisement")
	}

	buyerID, sellerID := input.TakerID, ad.OwnerID
	if ad.Side == domain.AdSideBuy {
		buyerID, sellerID = ad.OwnerID, input.TakerID
	}

	buyer, err := uc.cpRepo.GetByID(buyerID)
	if err != nil {
		return nil, err
	}
	seller, err := uc.cpRepo.GetByID(sellerID)
	if err != nil {
		return nil, err
	}
	if buyer.Suspended || seller.Suspended {
		return nil, domain.NewValidationError("counterparty is suspended")
	}

	// KYC is consulted only here and at ad creation
	idResult, err := uc.identity.Verify(ctx, input.TakerID)
	if err != nil {
		return nil, err
	}
	if !idResult.Verified {
		return nil, domain.NewUnauthorized("counterparty %s is not verified", input.TakerID)
	}

	asset, err := uc.assetRepo.GetByID(ad.AssetID)
	if err != nil {
		return nil, err
	}
	totalValue := QuoteValue(input.Amount, ad.Price, asset.Decimals)
	if totalValue < ad.MinOrderValue || totalValue > ad.MaxOrderValue {
		return nil, domain.NewValidationError(
			"order value %d outside advertisement range [%d, %d]", totalValue, ad.MinOrderValue, ad.MaxOrderValue)
	}

	// config is read fresh on every transition
	rule, err := uc.configRepo.GetCommissionRule(seller.Tier, ad.AssetID)
	if err != nil {
		return nil, err
	}
	settings, err := uc.configRepo.GetSettings()
	if err != nil {
		return nil, err
	}
	breakdown, err := ComputeCommission(totalValue, rule)
	if err != nil {
		return nil, err
	}

	if err := uc.adRepo.ReserveAmount(ad.ID, input.Amount); err != nil {
		return nil, err
	}

	handle, err := uc.ledger.Lock(ctx, sellerID, ad.AssetID, input.Amount)
	if err != nil {
		uc.restoreAd(ad.ID, input.Amount)
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:               uuid.New().String(),
		AdID:             ad.ID,
		BuyerID:          buyerID,
		SellerID:         sellerID,
		AssetID:          ad.AssetID,
		Amount:           input.Amount,
		Price:            ad.Price,
		QuoteCurrency:    ad.QuoteCurrency,
		TotalValue:       totalValue,
		CommissionRate:   breakdown.CommissionRate,
		CommissionAmount: breakdown.CommissionAmount,
		NetAmount:        breakdown.NetAmount,
		PaymentMethod:    input.PaymentMethod,
		Status:           domain.StatusPending,
		PaymentDeadline:  now.Add(settings.PaymentDeadline),
		AutoReleaseAt:    now.Add(settings.AutoReleaseWindow),
	}
	escrowID, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	escrow := &domain.Escrow{
		ID:         escrowID(),
		OrderID:    order.ID,
		SellerID:   sellerID,
		BuyerID:    buyerID,
		AssetID:    ad.AssetID,
		Amount:     input.Amount,
		LockHandle: handle,
		Status:     domain.EscrowLocked,
	}

	if err := uc.orderRepo.CreateWithEscrow(order, escrow); err != nil {
		// unwind: the refund is idempotent by handle, the ad restore is an
		// atomic increment
		if refundErr := uc.ledger.Refund(ctx, handle, input.Amount); refundErr != nil {
			slog.Error("failed to unwind ledger lock after create failure",
				"order_id", order.ID, "handle", handle, "error", refundErr.Error())
		}
		uc.restoreAd(ad.ID, input.Amount)
		return nil, err
	}

	uc.metrics.OrdersCreatedTotal.WithLabelValues(ad.AssetID, string(ad.Side)).Inc()
	uc.publishOrderEvent(order, "")
	return order, nil
}

func (uc *DefaultOrderUsecase) GetOrderByID(orderID string) (*domain.Order, error) {
	return uc.orderRepo.GetByID(orderID)
}

func (uc *DefaultOrderUsecase) ListOrders(filters domain.OrderFilters, page, limit int64) ([]*domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return uc.orderRepo.List(filters, page, limit)
}

// MarkPaid is the buyer's claim of having paid. The payment deadline is
// advisory: a late claim is evaluated against the order's current persisted
// status, and only a status change (e.g. the sweep canceled first) rejects it.
func (uc *DefaultOrderUsecase) MarkPaid(ctx context.Context, orderID, actorID string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if actorID != order.BuyerID {
		return nil, domain.NewUnauthorized("only the buyer may mark the order paid")
	}

	settings, err := uc.configRepo.GetSettings()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := uc.orderRepo.MarkPaid(orderID, now, now.Add(settings.ConfirmationWindow)); err != nil {
		if domain.IsStateConflict(err) {
			uc.metrics.StateConflictsTotal.WithLabelValues("mark_paid").Inc()
		}
		return nil, err
	}

	order, err = uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	uc.publishOrderEvent(order, "")
	return order, nil
}

// ConfirmReceipt is the seller confirming fiat receipt: decides completion
// and releases escrow to the buyer.
func (uc *DefaultOrderUsecase) ConfirmReceipt(ctx context.Context, orderID, actorID string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if actorID != order.SellerID {
		return nil, domain.NewUnauthorized("only the seller may confirm receipt")
	}
	if err := uc.complete(ctx, order, actorID, domain.ReasonSellerConfirmed); err != nil {
		return nil, err
	}
	return uc.orderRepo.GetByID(orderID)
}

// AutoRelease is the scheduler-driven counterpart of ConfirmReceipt. A
// StateConflict means a dispute or a confirmation won the race and is
// silently skipped.
func (uc *DefaultOrderUsecase) AutoRelease(ctx context.Context, orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.StatusPaid {
		return nil
	}
	err = uc.complete(ctx, order, SystemActor, domain.ReasonAutoRelease)
	if domain.IsStateConflict(err) {
		uc.metrics.StateConflictsTotal.WithLabelValues("auto_release").Inc()
		return nil
	}
	return err
}

// complete performs the decide step for PAID -> COMPLETED: one transaction
// carrying the conditional status flip, the settlement intent and the
// commission records, followed by counters, events, and a first settlement
// apply attempt. An apply failure is left to the retry worker; the decision
// already committed.
func (uc *DefaultOrderUsecase) complete(ctx context.Context, order *domain.Order, actor, reason string) error {
	start := time.Now()
	defer func() {
		uc.metrics.OrderProcessingDuration.WithLabelValues("complete").Observe(time.Since(start).Seconds())
	}()

	seller, err := uc.cpRepo.GetByID(order.SellerID)
	if err != nil {
		return err
	}
	// fresh shares: the commission amount was fixed at creation, the split
	// between platform/affiliate/referral follows current config
	rule, err := uc.configRepo.GetCommissionRule(seller.Tier, order.AssetID)
	if err != nil {
		return err
	}
	records, err := PartitionCommission(order.CommissionAmount, rule, seller)
	if err != nil {
		return err
	}
	for _, rec := range records {
		rec.OrderID = order.ID
	}

	escrow, err := uc.escrow.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	intent, err := newIntent(order, escrow, domain.SettleRelease, escrow.Amount, 0, actor, reason)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := uc.orderRepo.Finalize(order.ID, domain.StatusPaid, domain.StatusCompleted, now, reason, intent, records); err != nil {
		return err
	}

	uc.applyCounters(order.BuyerID, domain.CounterpartyCounters{TotalOrders: 1, CompletedOrders: 1, ReputationDelta: 1})
	uc.applyCounters(order.SellerID, domain.CounterpartyCounters{TotalOrders: 1, CompletedOrders: 1, ReputationDelta: 1})
	for _, rec := range records {
		uc.metrics.CommissionAmountTotal.WithLabelValues(string(rec.RecipientType)).Add(float64(rec.Amount))
	}
	uc.metrics.OrdersCompletedTotal.WithLabelValues(reason).Inc()

	order.Status = domain.StatusCompleted
	uc.publishOrderEvent(order, reason)

	if err := uc.settlement.Apply(ctx, intent); err != nil {
		slog.Warn("settlement apply deferred to retry worker",
			"order_id", order.ID, "intent_id", intent.ID, "error", err.Error())
	}
	return nil
}

// CancelOrder withdraws a PENDING order and refunds the escrow to the
// seller. The buyer may cancel at any time; the seller only once the payment
// deadline has passed; the system (empty deadline sweep) at timeout.
func (uc *DefaultOrderUsecase) CancelOrder(ctx context.Context, orderID, actorID string) (*domain.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	reason := domain.ReasonPaymentTimeout
	switch actorID {
	case SystemActor:
	case order.BuyerID:
		reason = domain.ReasonBuyerCanceled
	case order.SellerID:
		if time.Now().Before(order.PaymentDeadline) {
			return nil, domain.NewUnauthorized("seller may cancel only after the payment deadline")
		}
		reason = domain.ReasonSellerCanceled
	default:
		return nil, domain.NewUnauthorized("actor is not a party to the order")
	}

	if err := uc.cancel(ctx, order, actorID, reason); err != nil {
		return nil, err
	}
	return uc.orderRepo.GetByID(orderID)
}

func (uc *DefaultOrderUsecase) cancel(ctx context.Context, order *domain.Order, actor, reason string) error {
	start := time.Now()
	defer func() {
		uc.metrics.OrderProcessingDuration.WithLabelValues("cancel").Observe(time.Since(start).Seconds())
	}()

	escrow, err := uc.escrow.GetByOrderID(order.ID)
	if err != nil {
		return err
	}
	intent, err := newIntent(order, escrow, domain.SettleRefund, 0, escrow.Amount, actor, reason)
	if err != nil {
		return err
	}

	if err := uc.orderRepo.Finalize(order.ID, domain.StatusPending, domain.StatusCanceled, time.Now(), reason, intent, nil); err != nil {
		if domain.IsStateConflict(err) {
			uc.metrics.StateConflictsTotal.WithLabelValues("cancel").Inc()
		}
		return err
	}

	uc.restoreAd(order.AdID, order.Amount)
	uc.applyCounters(order.BuyerID, domain.CounterpartyCounters{TotalOrders: 1, CanceledOrders: 1})
	uc.applyCounters(order.SellerID, domain.CounterpartyCounters{TotalOrders: 1, CanceledOrders: 1})
	uc.metrics.OrdersCanceledTotal.WithLabelValues(reason).Inc()

	order.Status = domain.StatusCanceled
	uc.publishOrderEvent(order, reason)

	if err := uc.settlement.Apply(ctx, intent); err != nil {
		slog.Warn("settlement apply deferred to retry worker",
			"order_id", order.ID, "intent_id", intent.ID, "error", err.Error())
	}
	return nil
}

// CancelExpired sweeps PENDING orders past their payment deadline. Conflicts
// mean a buyer claim or another sweep instance got there first.
func (uc *DefaultOrderUsecase) CancelExpired(ctx context.Context) error {
	orders, err := uc.orderRepo.FindExpired(time.Now(), 100)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if err := uc.cancel(ctx, order, SystemActor, domain.ReasonPaymentTimeout); err != nil && !domain.IsStateConflict(err) {
			slog.Error("failed to cancel expired order", "order_id", order.ID, "error", err.Error())
		}
	}
	return nil
}

func (uc *DefaultOrderUsecase) restoreAd(adID string, amount int64) {
	if err := uc.adRepo.RestoreAmount(adID, amount); err != nil && !domain.IsStateConflict(err) {
		slog.Error("failed to restore ad amount", "ad_id", adID, "amount", amount, "error", err.Error())
	}
}

func (uc *DefaultOrderUsecase) applyCounters(cpID string, deltas domain.CounterpartyCounters) {
	if err := uc.cpRepo.ApplyCounters(cpID, deltas); err != nil {
		slog.Error("failed to apply counterparty counters", "counterparty_id", cpID, "error", err.Error())
	}
}

func (uc *DefaultOrderUsecase) publishOrderEvent(order *domain.Order, reason string) {
	event := domain.OrderEvent{
		OrderID:    order.ID,
		BuyerID:    order.BuyerID,
		SellerID:   order.SellerID,
		AssetID:    order.AssetID,
		Amount:     order.Amount,
		TotalValue: order.TotalValue,
		Status:     string(order.Status),
		Reason:     reason,
	}
	go func() {
		if err := uc.publisher.PublishOrderEvent(event); err != nil {
			slog.Error("failed to publish order event", "order_id", event.OrderID, "error", err.Error())
		}
	}()
}

func newIntent(order *domain.Order, escrow *domain.Escrow, outcome domain.SettlementOutcome, buyerShare, sellerShare int64, actor, reason string) (*domain.SettlementIntent, error) {
	newID, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	return &domain.SettlementIntent{
		ID:          newID(),
		OrderID:     order.ID,
		EscrowID:    escrow.ID,
		Outcome:     outcome,
		BuyerShare:  buyerShare,
		SellerShare: sellerShare,
		Reason:      reason,
		DecidedBy:   actor,
	}, nil
}
