package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/peerex/p2p-escrow-service/internal/app/background"
	"github.com/peerex/p2p-escrow-service/internal/config"
	delivery "github.com/peerex/p2p-escrow-service/internal/delivery/http"
	"github.com/peerex/p2p-escrow-service/internal/delivery/http/handlers"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/identity"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/kafka"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/ledger"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/metrics"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/migrate"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/repository"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/redisclaim"
	"github.com/peerex/p2p-escrow-service/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	cfg := config.MustLoad()
	db := postgres.MustInitDB(cfg)

	if cfg.EscrowDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.EscrowDB.MigrationsPath); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	engineMetrics := metrics.NewEngineMetrics()

	// Repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	adRepo := repository.NewDefaultAdvertisementRepository(db)
	cpRepo := repository.NewDefaultCounterpartyRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	settlementRepo := repository.NewDefaultSettlementRepository(db)
	assetRepo := repository.NewDefaultAssetRepository(db)
	configRepo := repository.NewDefaultPlatformConfigRepository(db)

	// External collaborators
	ledgerTimeout := mustDuration(cfg.LedgerService.Timeout)
	identityTimeout := mustDuration(cfg.IdentityService.Timeout)
	ledgerAdapter := ledger.NewHTTPLedgerAdapter(cfg.LedgerService.BaseURL, ledgerTimeout)
	identityVerifier := identity.NewHTTPIdentityVerifier(cfg.IdentityService.BaseURL, identityTimeout)

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	eventPublisher := kafka.NewKafkaPublisher(brokers)
	defer eventPublisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisService.Addr,
		Password: cfg.RedisService.Password,
		DB:       cfg.RedisService.DB,
	})
	claims := redisclaim.NewClaimStore(redisClient, "escrow:claim:")

	// Usecases
	escrowStore := usecase.NewEscrowStore(escrowRepo, ledgerAdapter)
	settlementUC := usecase.NewSettlementUsecase(settlementRepo, escrowStore, disputeRepo, engineMetrics)
	orderUC := usecase.NewDefaultOrderUsecase(
		orderRepo,
		adRepo,
		cpRepo,
		assetRepo,
		configRepo,
		ledgerAdapter,
		identityVerifier,
		escrowStore,
		settlementUC,
		eventPublisher,
		engineMetrics,
	)
	disputeUC := usecase.NewDefaultDisputeUsecase(
		disputeRepo,
		orderRepo,
		cpRepo,
		configRepo,
		escrowStore,
		settlementUC,
		eventPublisher,
		engineMetrics,
	)
	adUC := usecase.NewDefaultAdUsecase(adRepo, cpRepo, assetRepo, identityVerifier)
	cpUC := usecase.NewDefaultCounterpartyUsecase(cpRepo, identityVerifier)

	// Background loops
	tasks := background.NewBackgroundTasks(orderUC, settlementUC, orderRepo, claims, engineMetrics, background.Options{
		SweepInterval:  mustDuration(cfg.Background.SweepInterval),
		SweepBatchSize: cfg.Background.SweepBatchSize,
		RetryInterval:  mustDuration(cfg.Background.RetryInterval),
		RetryMinAge:    mustDuration(cfg.Background.RetryMinIntentAge),
		ClaimTTL:       mustDuration(cfg.Background.ClaimTTL),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := tasks.StartAll(ctx); err != nil && ctx.Err() == nil {
			slog.Error("background tasks stopped", "error", err.Error())
		}
	}()

	router := delivery.NewRouter(delivery.Handlers{
		Counterparty: handlers.NewCounterpartyHandler(cpUC),
		Ad:           handlers.NewAdHandler(adUC),
		Order:        handlers.NewOrderHandler(orderUC),
		Dispute:      handlers.NewDisputeHandler(disputeUC),
		Settlement:   handlers.NewSettlementHandler(settlementUC),
	}, cfg.JWT.Secret)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("escrow service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("invalid duration %q: %v", s, err)
	}
	return d
}
