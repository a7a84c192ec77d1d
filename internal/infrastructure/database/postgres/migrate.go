package postgres

import (
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// AutoMigrate creates or updates the schema for every persisted model.
func (d *DB) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.UserModel{},
		&models.FarmModel{},
		&models.ESPModel{},
		&models.SensorModel{},
		&models.ActuatorModel{},
		&models.AutomationConditionModel{},
		&models.SensorLogModel{},
		&models.DeviceStatusModel{},
		&models.BoardPostModel{},
		&models.BoardCommentModel{},
		&models.StoreItemModel{},
		&models.UserDeviceModel{},
	)
}
