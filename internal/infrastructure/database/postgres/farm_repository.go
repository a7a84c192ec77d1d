package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domainFarm "smart-farm-monitor/internal/domain/farm"
	domainStore "smart-farm-monitor/internal/domain/store"
	"smart-farm-monitor/internal/infrastructure/database/postgres/models"
)

// FarmRepository implements domain farm.Repository on GORM.
type FarmRepository struct {
	db *DB
}

func NewFarmRepository(db *DB) domainFarm.Repository {
	return &FarmRepository{db: db}
}

func (r *FarmRepository) CreateFarm(ctx context.Context, f *domainFarm.Farm) error {
	dbModel := toFarmModel(f)
	dbModel.CreatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}

	f.ID = dbModel.ID
	f.CreatedAt = dbModel.CreatedAt
	return nil
}

func (r *FarmRepository) GetFarm(ctx context.Context, farmID uint) (*domainFarm.Farm, error) {
	var dbModel models.FarmModel
	err := r.db.DB.WithContext(ctx).Where("farm_id = ?", farmID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainFarm.ErrFarmNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get farm: %w", err)
	}
	return toFarmEntity(&dbModel), nil
}

func (r *FarmRepository) ListFarms(ctx context.Context, userID uint) ([]*domainFarm.Farm, error) {
	var rows []models.FarmModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("farm_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}

	farms := make([]*domainFarm.Farm, 0, len(rows))
	for i := range rows {
		farms = append(farms, toFarmEntity(&rows[i]))
	}
	return farms, nil
}

// DeleteFarm is a single-table delete keyed by id. Child ESP rows are left
// in place; the schema declares no cascade.
func (r *FarmRepository) DeleteFarm(ctx context.Context, farmID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Delete(&models.FarmModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete farm: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainFarm.ErrFarmNotFound
	}
	return nil
}

func (r *FarmRepository) UpdateFarmSettings(ctx context.Context, userID uint, farmName string, temperature, humidity, soilMoisture *float64) (bool, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.FarmModel{}).
		Where("user_id = ? AND farm_name = ?", userID, farmName).
		Updates(map[string]interface{}{
			"temperature_optimal":   temperature,
			"humidity_optimal":      humidity,
			"soil_moisture_optimal": soilMoisture,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update farm settings: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *FarmRepository) CreateESPWithDevice(ctx context.Context, esp *domainFarm.ESP, device *domainFarm.NewDevice) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var farmRow models.FarmModel
		err := tx.Where("farm_id = ?", esp.FarmID).First(&farmRow).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainFarm.ErrFarmNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to resolve farm owner: %w", err)
		}

		// Inventory check: the owner must hold more devices of this type
		// than are already installed across their farms.
		var total int64
		err = tx.Model(&models.UserDeviceModel{}).
			Where("user_id = ? AND device_subtype = ?", farmRow.UserID, device.Type).
			Count(&total).Error
		if err != nil {
			return fmt.Errorf("failed to count inventory: %w", err)
		}
		if total == 0 {
			return domainFarm.ErrNoInventory
		}

		used, err := countInstalled(tx, farmRow.UserID, device.Kind, device.Type)
		if err != nil {
			return err
		}
		if used >= int(total) {
			return domainFarm.ErrNoInventory
		}

		espModel := &models.ESPModel{
			FarmID:      esp.FarmID,
			ESPName:     esp.Name,
			IPAddress:   esp.IPAddress,
			SerialNo:    esp.SerialNo,
			IsConnected: false,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(espModel).Error; err != nil {
			return fmt.Errorf("failed to create esp: %w", err)
		}
		esp.ID = espModel.ID

		switch device.Kind {
		case domainFarm.DeviceKindSensor:
			sensor := &models.SensorModel{
				ESPID:      espModel.ID,
				SensorType: device.Type,
				SensorName: device.Name,
				GPIOPin:    device.GPIOPin,
				Unit:       device.Unit,
				IsActive:   true,
			}
			if err := tx.Create(sensor).Error; err != nil {
				return fmt.Errorf("failed to create sensor: %w", err)
			}
		case domainFarm.DeviceKindActuator:
			actuator := &models.ActuatorModel{
				ESPID:        espModel.ID,
				ActuatorType: device.Type,
				ActuatorName: device.Name,
				GPIOPin:      device.GPIOPin,
				IsActive:     true,
			}
			if err := tx.Create(actuator).Error; err != nil {
				return fmt.Errorf("failed to create actuator: %w", err)
			}
		default:
			return domainFarm.ErrInvalidDeviceKind
		}

		return nil
	})
}

func (r *FarmRepository) GetESP(ctx context.Context, farmID, espID uint) (*domainFarm.ESP, error) {
	var dbModel models.ESPModel
	err := r.db.DB.WithContext(ctx).
		Where("esp_id = ? AND farm_id = ?", espID, farmID).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainFarm.ErrESPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get esp: %w", err)
	}
	return toESPEntity(&dbModel), nil
}

func (r *FarmRepository) ListESPs(ctx context.Context, farmID uint) ([]*domainFarm.ESP, error) {
	var rows []models.ESPModel
	err := r.db.DB.WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("esp_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list esps: %w", err)
	}

	esps := make([]*domainFarm.ESP, 0, len(rows))
	for i := range rows {
		esps = append(esps, toESPEntity(&rows[i]))
	}
	return esps, nil
}

func (r *FarmRepository) DeleteESP(ctx context.Context, farmID, espID uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.UserDeviceModel{}).
			Where("assigned_esp_id = ?", espID).
			Updates(map[string]interface{}{
				"status":           domainStore.StatusUnassigned,
				"assigned_farm_id": nil,
				"assigned_esp_id":  nil,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to unassign devices: %w", err)
		}

		result := tx.Where("esp_id = ? AND farm_id = ?", espID, farmID).
			Delete(&models.ESPModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete esp: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domainFarm.ErrESPNotFound
		}
		return nil
	})
}

func (r *FarmRepository) ESPBelongsToFarm(ctx context.Context, espID, farmID uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ESPModel{}).
		Where("esp_id = ? AND farm_id = ?", espID, farmID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to validate esp/farm mapping: %w", err)
	}
	return count > 0, nil
}

func (r *FarmRepository) CreateSensor(ctx context.Context, s *domainFarm.Sensor) error {
	dbModel := &models.SensorModel{
		ESPID:      s.ESPID,
		SensorType: s.Type,
		SensorName: s.Name,
		DeviceName: s.DeviceName,
		GPIOPin:    s.GPIOPin,
		Unit:       s.Unit,
		IsActive:   true,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create sensor: %w", err)
	}
	s.ID = dbModel.ID
	return nil
}

func (r *FarmRepository) CreateActuator(ctx context.Context, a *domainFarm.Actuator) error {
	dbModel := &models.ActuatorModel{
		ESPID:        a.ESPID,
		ActuatorType: a.Type,
		ActuatorName: a.Name,
		DeviceName:   a.DeviceName,
		GPIOPin:      a.GPIOPin,
		IsActive:     true,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create actuator: %w", err)
	}
	a.ID = dbModel.ID
	return nil
}

func (r *FarmRepository) ListSensors(ctx context.Context, espIDs []uint) ([]*domainFarm.Sensor, error) {
	if len(espIDs) == 0 {
		return nil, nil
	}
	var rows []models.SensorModel
	err := r.db.DB.WithContext(ctx).
		Where("esp_id IN ?", espIDs).
		Order("sensor_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}

	sensors := make([]*domainFarm.Sensor, 0, len(rows))
	for i := range rows {
		sensors = append(sensors, toSensorEntity(&rows[i]))
	}
	return sensors, nil
}

func (r *FarmRepository) ListActuators(ctx context.Context, espIDs []uint) ([]*domainFarm.Actuator, error) {
	if len(espIDs) == 0 {
		return nil, nil
	}
	var rows []models.ActuatorModel
	err := r.db.DB.WithContext(ctx).
		Where("esp_id IN ?", espIDs).
		Order("actuator_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list actuators: %w", err)
	}

	actuators := make([]*domainFarm.Actuator, 0, len(rows))
	for i := range rows {
		actuators = append(actuators, toActuatorEntity(&rows[i]))
	}
	return actuators, nil
}

func (r *FarmRepository) CountOwnedDevices(ctx context.Context, userID uint, kind, deviceType string) (int, error) {
	used, err := countInstalled(r.db.DB.WithContext(ctx), userID, kind, deviceType)
	if err != nil {
		return 0, err
	}
	return used, nil
}

// countInstalled counts sensors or actuators of a type already installed
// across every farm the user owns.
func countInstalled(tx *gorm.DB, userID uint, kind, deviceType string) (int, error) {
	var count int64
	var err error
	switch kind {
	case domainFarm.DeviceKindSensor:
		err = tx.Model(&models.SensorModel{}).
			Joins("JOIN esps ON sensors.esp_id = esps.esp_id").
			Joins("JOIN farms ON esps.farm_id = farms.farm_id").
			Where("farms.user_id = ? AND sensors.sensor_type = ?", userID, deviceType).
			Count(&count).Error
	case domainFarm.DeviceKindActuator:
		err = tx.Model(&models.ActuatorModel{}).
			Joins("JOIN esps ON actuators.esp_id = esps.esp_id").
			Joins("JOIN farms ON esps.farm_id = farms.farm_id").
			Where("farms.user_id = ? AND actuators.actuator_type = ?", userID, deviceType).
			Count(&count).Error
	default:
		return 0, domainFarm.ErrInvalidDeviceKind
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count installed devices: %w", err)
	}
	return int(count), nil
}

func (r *FarmRepository) ListConditions(ctx context.Context, userID uint) ([]*domainFarm.AutomationCondition, error) {
	type conditionRow struct {
		models.AutomationConditionModel
		SensorType   string
		ActuatorType string
		FarmName     string
	}

	var rows []conditionRow
	err := r.db.DB.WithContext(ctx).
		Model(&models.AutomationConditionModel{}).
		Select("automation_conditions.*, sensors.sensor_type, actuators.actuator_type, farms.farm_name").
		Joins("JOIN sensors ON automation_conditions.sensor_id = sensors.sensor_id").
		Joins("JOIN actuators ON automation_conditions.actuator_id = actuators.actuator_id").
		Joins("JOIN farms ON automation_conditions.farm_id = farms.farm_id").
		Where("automation_conditions.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list automation conditions: %w", err)
	}

	conditions := make([]*domainFarm.AutomationCondition, 0, len(rows))
	for _, row := range rows {
		conditions = append(conditions, &domainFarm.AutomationCondition{
			ID:           row.ID,
			UserID:       row.UserID,
			FarmID:       row.FarmID,
			SensorID:     row.SensorID,
			ActuatorID:   row.ActuatorID,
			Trigger:      row.Trigger,
			Threshold:    row.Threshold,
			SensorType:   row.SensorType,
			ActuatorType: row.ActuatorType,
			FarmName:     row.FarmName,
		})
	}
	return conditions, nil
}

func (r *FarmRepository) CreateCondition(ctx context.Context, c *domainFarm.AutomationCondition) error {
	dbModel := &models.AutomationConditionModel{
		UserID:     c.UserID,
		FarmID:     c.FarmID,
		SensorID:   c.SensorID,
		ActuatorID: c.ActuatorID,
		Trigger:    c.Trigger,
		Threshold:  c.Threshold,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create automation condition: %w", err)
	}
	c.ID = dbModel.ID
	return nil
}

func (r *FarmRepository) DeleteCondition(ctx context.Context, userID, conditionID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("condition_id = ? AND user_id = ?", conditionID, userID).
		Delete(&models.AutomationConditionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete automation condition: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainFarm.ErrConditionNotFound
	}
	return nil
}

func toFarmModel(f *domainFarm.Farm) *models.FarmModel {
	return &models.FarmModel{
		ID:                  f.ID,
		UserID:              f.UserID,
		FarmName:            f.Name,
		Location:            f.Location,
		FarmSize:            f.Size,
		PlantName:           f.PlantName,
		TemperatureOptimal:  f.TemperatureOptimal,
		HumidityOptimal:     f.HumidityOptimal,
		SoilMoistureOptimal: f.SoilMoistureOptimal,
		CreatedAt:           f.CreatedAt,
	}
}

func toFarmEntity(m *models.FarmModel) *domainFarm.Farm {
	return &domainFarm.Farm{
		ID:                  m.ID,
		UserID:              m.UserID,
		Name:                m.FarmName,
		Location:            m.Location,
		Size:                m.FarmSize,
		PlantName:           m.PlantName,
		TemperatureOptimal:  m.TemperatureOptimal,
		HumidityOptimal:     m.HumidityOptimal,
		SoilMoistureOptimal: m.SoilMoistureOptimal,
		CreatedAt:           m.CreatedAt,
	}
}

func toESPEntity(m *models.ESPModel) *domainFarm.ESP {
	return &domainFarm.ESP{
		ID:          m.ID,
		FarmID:      m.FarmID,
		Name:        m.ESPName,
		IPAddress:   m.IPAddress,
		SerialNo:    m.SerialNo,
		IsConnected: m.IsConnected,
		CreatedAt:   m.CreatedAt,
	}
}

func toSensorEntity(m *models.SensorModel) *domainFarm.Sensor {
	return &domainFarm.Sensor{
		ID:          m.ID,
		ESPID:       m.ESPID,
		Type:        m.SensorType,
		Name:        m.SensorName,
		DeviceName:  m.DeviceName,
		GPIOPin:     m.GPIOPin,
		Unit:        m.Unit,
		IsActive:    m.IsActive,
		InstalledAt: m.InstalledAt,
	}
}

func toActuatorEntity(m *models.ActuatorModel) *domainFarm.Actuator {
	return &domainFarm.Actuator{
		ID:          m.ID,
		ESPID:       m.ESPID,
		Type:        m.ActuatorType,
		Name:        m.ActuatorName,
		DeviceName:  m.DeviceName,
		GPIOPin:     m.GPIOPin,
		IsActive:    m.IsActive,
		InstalledAt: m.InstalledAt,
	}
}
