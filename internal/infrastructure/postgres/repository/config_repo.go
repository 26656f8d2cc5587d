package repository

import (
	"errors"
	"strconv"
	"time"

	"github.com/peerex/p2p-escrow-service/internal/domain"
	"github.com/peerex/p2p-escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// Platform setting keys. Values are stored as strings holding a duration in
// seconds so operators can change them with a plain UPDATE.
const (
	SettingPaymentDeadline    = "payment_deadline_seconds"
	SettingConfirmationWindow = "confirmation_window_seconds"
	SettingAutoReleaseWindow  = "auto_release_window_seconds"
)

// DefaultPlatformConfigRepository serves commission rules and deadline
// settings straight from the database on every call. No caching: a config
// change must affect the very next transition.
type DefaultPlatformConfigRepository struct {
	DB *gorm.DB
}

func NewDefaultPlatformConfigRepository(db *gorm.DB) *DefaultPlatformConfigRepository {
	return &DefaultPlatformConfigRepository{DB: db}
}

func (r *DefaultPlatformConfigRepository) GetCommissionRule(tier, assetID string) (*domain.CommissionRule, error) {
	var model models.CommissionRuleModel
	if err := r.DB.First(&model, "tier = ? AND asset_id = ?", tier, assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("commission rule", tier+"/"+assetID)
		}
		return nil, err
	}
	return &domain.CommissionRule{
		Tier:           model.Tier,
		AssetID:        model.AssetID,
		Rate:           model.Rate,
		MinCommission:  model.MinCommission,
		MaxCommission:  model.MaxCommission,
		AffiliateShare: model.AffiliateShare,
		ReferralShare:  model.ReferralShare,
	}, nil
}

func (r *DefaultPlatformConfigRepository) GetSettings() (*domain.PlatformSettings, error) {
	payment, err := r.durationSetting(SettingPaymentDeadline)
	if err != nil {
		return nil, err
	}
	confirmation, err := r.durationSetting(SettingConfirmationWindow)
	if err != nil {
		return nil, err
	}
	autoRelease, err := r.durationSetting(SettingAutoReleaseWindow)
	if err != nil {
		return nil, err
	}
	return &domain.PlatformSettings{
		PaymentDeadline:    payment,
		ConfirmationWindow: confirmation,
		AutoReleaseWindow:  autoRelease,
	}, nil
}

func (r *DefaultPlatformConfigRepository) durationSetting(key string) (time.Duration, error) {
	var model models.PlatformSettingModel
	if err := r.DB.First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.NewNotFound("platform setting", key)
		}
		return 0, err
	}
	seconds, err := strconv.ParseInt(model.Value, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("platform setting %s holds %q, want seconds", key, model.Value)
	}
	return time.Duration(seconds) * time.Second, nil
}
