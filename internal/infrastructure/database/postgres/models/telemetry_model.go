package models

import "time"

// SensorLogModel is one append-only time-series row.
type SensorLogModel struct {
	ID          uint      `gorm:"column:log_id;primaryKey;autoIncrement"`
	SensorID    uint      `gorm:"not null;index"`
	SensorType  string    `gorm:"type:varchar(100);not null;index"`
	SensorValue float64   `gorm:"not null"`
	Time        time.Time `gorm:"not null;index"`
}

func (SensorLogModel) TableName() string {
	return "sensor_logs"
}

// DeviceStatusModel is the latest on/off state per purchased device.
type DeviceStatusModel struct {
	DeviceID     uint      `gorm:"primaryKey"`
	DeviceStatus string    `gorm:"type:varchar(10);not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (DeviceStatusModel) TableName() string {
	return "device_status"
}
