package models

import "time"

// SettingModel is one numeric kiosk setting, e.g. gas_price = 3.49
type SettingModel struct {
	Key       string    `gorm:"type:varchar(64);primaryKey"`
	Value     float64   `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}
