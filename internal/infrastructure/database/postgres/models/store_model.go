package models

import "time"

// StoreItemModel is one purchasable catalog row.
type StoreItemModel struct {
	ID            uint      `gorm:"column:store_id;primaryKey;autoIncrement"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Type          string    `gorm:"type:varchar(100);not null"`
	Subtype       string    `gorm:"type:varchar(100);not null"`
	Price         float64   `gorm:"not null"`
	ImageURL      *string   `gorm:"type:varchar(512)"`
	Description   *string   `gorm:"type:text"`
	Details       *string   `gorm:"type:text"`
	Communication *string   `gorm:"type:varchar(100)"`
	Stock         int       `gorm:"not null;default:0"`
	IsActive      bool      `gorm:"default:true;not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (StoreItemModel) TableName() string {
	return "store"
}

// UserDeviceModel is a purchase-created device instance pending physical
// registration.
type UserDeviceModel struct {
	ID             uint      `gorm:"column:device_id;primaryKey;autoIncrement"`
	UserID         uint      `gorm:"not null;index"`
	StoreID        uint      `gorm:"not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	DeviceType     string    `gorm:"type:varchar(50);not null"`
	DeviceSubtype  string    `gorm:"type:varchar(100);not null"`
	GPIOPin        int       `gorm:"column:gpio_pin;default:0"`
	Unit           *string   `gorm:"type:varchar(32)"`
	Status         string    `gorm:"type:varchar(50);not null;default:'unassigned';index"`
	AssignedFarmID *uint     `gorm:"index"`
	AssignedESPID  *uint     `gorm:"column:assigned_esp_id;index"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (UserDeviceModel) TableName() string {
	return "user_devices"
}
