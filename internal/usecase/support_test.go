package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/metrics"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/repository"
	"github.com/peerex/p2p-escrow-service/internal/usecase/dto"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// in-memory sqlite is per connection
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.CounterpartyModel{},
		&models.AssetModel{},
		&models.AdvertisementModel{},
		&models.OrderModel{},
		&models.EscrowModel{},
		&models.DisputeModel{},
		&models.SettlementIntentModel{},
		&models.CommissionRecordModel{},
		&models.CommissionRuleModel{},
		&models.PlatformSettingModel{},
	))
	return db
}

// fakeLedger counts calls and mimics handle-keyed idempotency.
type fakeLedger struct {
	mu         sync.Mutex
	lockErr    error
	releaseErr error
	locks      int
	releases   int
	refunds    int
}

func (f *fakeLedger) Lock(ctx context.Context, ownerID, assetID string, amount int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lockErr != nil {
		return "", f.lockErr
	}
	f.locks++
	return "lock-" + uuid.New().String(), nil
}

func (f *fakeLedger) Release(ctx context.Context, handle, destinationOwnerID string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.releases++
	return nil
}

func (f *fakeLedger) setReleaseErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseErr = err
}

func (f *fakeLedger) Refund(ctx context.Context, handle string, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds++
	return nil
}

func (f *fakeLedger) counts() (locks, releases, refunds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locks, f.releases, f.refunds
}

type fakeIdentity struct {
	verified bool
	tier     string
}

func (f *fakeIdentity) Verify(ctx context.Context, counterpartyID string) (*domain.IdentityResult, error) {
	return &domain.IdentityResult{Verified: f.verified, Tier: f.tier}, nil
}

// fakePublisher tolerates the async publish goroutines.
type fakePublisher struct {
	mu            sync.Mutex
	orderEvents   []domain.OrderEvent
	disputeEvents []domain.DisputeEvent
}

func (f *fakePublisher) PublishOrderEvent(event domain.OrderEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderEvents = append(f.orderEvents, event)
	return nil
}

func (f *fakePublisher) PublishDisputeEvent(event domain.DisputeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disputeEvents = append(f.disputeEvents, event)
	return nil
}

// engine bundles everything a flow test touches.
type engine struct {
	db         *gorm.DB
	ledger     *fakeLedger
	identity   *fakeIdentity
	publisher  *fakePublisher
	orderRepo  domain.OrderRepository
	adRepo     domain.AdvertisementRepository
	cpRepo     domain.CounterpartyRepository
	escrowRepo domain.EscrowRepository
	intents    domain.SettlementRepository
	records    domain.CommissionRepository
	escrow     *EscrowStore
	settlement *SettlementUsecase
	orders     *DefaultOrderUsecase
	disputes   *DefaultDisputeUsecase
	ads        *DefaultAdUsecase
}

func newTestEngine(t *testing.T) *engine {
	t.Helper()
	db := setupTestDB(t)
	ledger := &fakeLedger{}
	ident := &fakeIdentity{verified: true, tier: "standard"}
	pub := &fakePublisher{}
	m := metrics.NewEngineMetricsWith(prometheus.NewRegistry())

	orderRepo := repository.NewDefaultOrderRepository(db)
	adRepo := repository.NewDefaultAdvertisementRepository(db)
	cpRepo := repository.NewDefaultCounterpartyRepository(db)
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	settlementRepo := repository.NewDefaultSettlementRepository(db)
	assetRepo := repository.NewDefaultAssetRepository(db)
	configRepo := repository.NewDefaultPlatformConfigRepository(db)

	escrowStore := NewEscrowStore(escrowRepo, ledger)
	settlementUC := NewSettlementUsecase(settlementRepo, escrowStore, disputeRepo, m)
	orderUC := NewDefaultOrderUsecase(
		orderRepo, adRepo, cpRepo, assetRepo, configRepo,
		ledger, ident, escrowStore, settlementUC, pub, m,
	)
	disputeUC := NewDefaultDisputeUsecase(
		disputeRepo, orderRepo, cpRepo, configRepo,
		escrowStore, settlementUC, pub, m,
	)
	adUC := NewDefaultAdUsecase(adRepo, cpRepo, assetRepo, ident)

	return &engine{
		db:         db,
		ledger:     ledger,
		identity:   ident,
		publisher:  pub,
		orderRepo:  orderRepo,
		adRepo:     adRepo,
		cpRepo:     cpRepo,
		escrowRepo: escrowRepo,
		intents:    settlementRepo,
		records:    repository.NewDefaultCommissionRepository(db),
		escrow:     escrowStore,
		settlement: settlementUC,
		orders:     orderUC,
		disputes:   disputeUC,
		ads:        adUC,
	}
}

// seed inserts the standard fixture: an asset with 2 decimals, a commission
// rule of 2% for the standard tier, deadline settings, a seller with an
// active SELL ad and a buyer.
type fixture struct {
	Seller *domain.Counterparty
	Buyer  *domain.Counterparty
	Ad     *domain.Advertisement
}

func (e *engine) seed(t *testing.T) *fixture {
	t.Helper()
	require.NoError(t, e.db.Create(&models.AssetModel{ID: "TOKEN", Name: "Token", Decimals: 2}).Error)
	require.NoError(t, e.db.Create(&models.CommissionRuleModel{
		Tier: "standard", AssetID: "TOKEN", Rate: 0.02,
	}).Error)
	for key, value := range map[string]string{
		repository.SettingPaymentDeadline:    "900",
		repository.SettingConfirmationWindow: "1800",
		repository.SettingAutoReleaseWindow:  "86400",
	} {
		require.NoError(t, e.db.Create(&models.PlatformSettingModel{Key: key, Value: value}).Error)
	}

	seller := &domain.Counterparty{ID: uuid.New().String(), DisplayName: "seller", Tier: "standard"}
	buyer := &domain.Counterparty{ID: uuid.New().String(), DisplayName: "buyer", Tier: "standard"}
	require.NoError(t, e.cpRepo.Create(seller))
	require.NoError(t, e.cpRepo.Create(buyer))

	ad := &domain.Advertisement{
		ID:              uuid.New().String(),
		OwnerID:         seller.ID,
		Side:            domain.AdSideSell,
		AssetID:         "TOKEN",
		Price:           10, // quote minimal units per whole unit / 10^decimals scaling applies
		QuoteCurrency:   "EUR",
		MinOrderValue:   1,
		MaxOrderValue:   1_000_000,
		PaymentMethods:  []string{"sepa"},
		TotalAmount:     100_000,
		AvailableAmount: 100_000,
		Status:          domain.AdActive,
	}
	require.NoError(t, e.adRepo.Create(ad))

	return &fixture{Seller: seller, Buyer: buyer, Ad: ad}
}

func (e *engine) createOrder(t *testing.T, f *fixture, amount int64) *domain.Order {
	t.Helper()
	order, err := e.orders.CreateOrder(context.Background(), &dto.CreateOrderInput{
		AdID:          f.Ad.ID,
		TakerID:       f.Buyer.ID,
		Amount:        amount,
		PaymentMethod: "sepa",
	})
	require.NoError(t, err)
	return order
}

// setOrderTime rewrites deadline columns directly, standing in for the
// passage of time.
func (e *engine) setOrderTime(t *testing.T, orderID, column string, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Update(column, at).Error)
}
