package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fueltire/receipts/internal/domain/shared"
	"github.com/fueltire/receipts/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxSettingKeyLength matches the settings.key column width
const MaxSettingKeyLength = 64

// ErrInvalidSettingKey is returned for empty or over-long keys
var ErrInvalidSettingKey = shared.NewDomainError("INVALID_SETTING_KEY", "Setting key must be 1 to 64 characters")

// SettingsRepository stores numeric kiosk settings in a key/value table
type SettingsRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db, now: time.Now}
}

// WithTx returns a new repository instance with the given transaction
func (r *SettingsRepository) WithTx(tx *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: tx, now: r.now}
}

// Get returns the value stored under key. The bool is false when no row exists.
func (r *SettingsRepository) Get(ctx context.Context, key string) (float64, bool, error) {
	var model models.SettingModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return model.Value, true, nil
}

// All returns every stored setting
func (r *SettingsRepository) All(ctx context.Context) (map[string]float64, error) {
	var rows []models.SettingModel
	if err := r.db.WithContext(ctx).Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Set inserts or replaces the value for key
func (r *SettingsRepository) Set(ctx context.Context, key string, value float64) error {
	if key == "" || len(key) > MaxSettingKeyLength {
		return ErrInvalidSettingKey
	}
	model := models.SettingModel{Key: key, Value: value, UpdatedAt: r.now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model).Error
}

// Delete removes key; deleting a missing key is not an error
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SettingModel{}).Error
}
