package background

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/metrics"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
)

// ClaimStore is the short-lived lease used to keep concurrent sweep
// instances off the same order. Claims are best-effort; losing one never
// corrupts state because the status guards still decide who wins.
type ClaimStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Options struct {
	SweepInterval  time.Duration
	SweepBatchSize int
	RetryInterval  time.Duration
	RetryMinAge    time.Duration
	ClaimTTL       time.Duration
}

// BackgroundTasks owns the three periodic loops: auto-release of overdue
// PAID orders, cancellation of expired PENDING orders, and retry of pending
// settlement intents.
type BackgroundTasks struct {
	OrderUsecase      usecase.OrderUsecase
	SettlementUsecase *usecase.SettlementUsecase
	OrderRepo         domain.OrderRepository
	Claims            ClaimStore
	Metrics           *metrics.EngineMetrics
	Opts              Options
}

func NewBackgroundTasks(
	orderUC usecase.OrderUsecase,
	settlementUC *usecase.SettlementUsecase,
	orderRepo domain.OrderRepository,
	claims ClaimStore,
	m *metrics.EngineMetrics,
	opts Options,
) *BackgroundTasks {
	return &BackgroundTasks{
		OrderUsecase:      orderUC,
		SettlementUsecase: settlementUC,
		OrderRepo:         orderRepo,
		Claims:            claims,
		Metrics:           m,
		Opts:              opts,
	}
}

// StartAll runs every loop until ctx is canceled and returns once all of
// them have drained.
func (bt *BackgroundTasks) StartAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return bt.runLoop(ctx, bt.Opts.SweepInterval, bt.sweepAutoRelease) })
	g.Go(func() error { return bt.runLoop(ctx, bt.Opts.SweepInterval, bt.sweepExpired) })
	g.Go(func() error { return bt.runLoop(ctx, bt.Opts.RetryInterval, bt.retrySettlements) })
	return g.Wait()
}

func (bt *BackgroundTasks) runLoop(ctx context.Context, interval time.Duration, tick func(context.Context)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// sweepAutoRelease releases PAID orders whose auto-release time elapsed.
// Each candidate is claimed first so a fleet of instances splits the batch
// instead of hammering the same rows.
func (bt *BackgroundTasks) sweepAutoRelease(ctx context.Context) {
	orders, err := bt.OrderRepo.FindAutoReleasable(time.Now(), bt.Opts.SweepBatchSize)
	if err != nil {
		slog.Error("auto-release sweep query failed", "error", err.Error())
		return
	}

	for _, order := range orders {
		key := "autorelease:" + order.ID
		won, err := bt.Claims.Acquire(ctx, key, bt.Opts.ClaimTTL)
		claimed := false
		if err != nil {
			// Redis being down degrades to claimless sweeping; the status
			// guard still keeps releases single-shot.
			slog.Warn("claim acquire failed, proceeding unclaimed", "order_id", order.ID, "error", err.Error())
		} else if !won {
			bt.Metrics.SweepClaimsTotal.WithLabelValues("lost").Inc()
			continue
		} else {
			claimed = true
			bt.Metrics.SweepClaimsTotal.WithLabelValues("won").Inc()
		}

		if err := bt.OrderUsecase.AutoRelease(ctx, order.ID); err != nil {
			slog.Error("auto-release failed", "order_id", order.ID, "error", err.Error())
		}

		// release win or lose, so a failed order is retryable by the next
		// sweep instead of waiting out the claim TTL
		if claimed {
			if err := bt.Claims.Release(ctx, key); err != nil {
				slog.Warn("claim release failed", "order_id", order.ID, "error", err.Error())
			}
		}
	}
}

func (bt *BackgroundTasks) sweepExpired(ctx context.Context) {
	if err := bt.OrderUsecase.CancelExpired(ctx); err != nil {
		slog.Error("expired order sweep failed", "error", err.Error())
	}
}

func (bt *BackgroundTasks) retrySettlements(ctx context.Context) {
	if err := bt.SettlementUsecase.RetryPending(ctx, bt.Opts.RetryMinAge, bt.Opts.SweepBatchSize); err != nil {
		slog.Error("settlement retry pass failed", "error", err.Error())
	}
}
