package postgres

import (
	"log"

	"github.com/peerex/p2p-escrow-service/internal/config"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	dsn := cfg.EscrowDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
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
	)

	return db
}
